package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. PROMPTCAT_MAX_FILES.
const EnvPrefix = "PROMPTCAT"

// configBaseName is the config file name looked up in the working directory.
const configBaseName = "promptcat-config"

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// Config represents the structure of the configuration file
type Config struct {
	MaxFiles              int      `mapstructure:"max_files"`
	MaxFileSize           int64    `mapstructure:"max_file_size"`
	SampleSize            int      `mapstructure:"sample_size"`
	NonPrintableThreshold float64  `mapstructure:"non_printable_threshold"`
	ExtraExcludes         []string `mapstructure:"extra_excludes"`
	IncludeHidden         bool     `mapstructure:"include_hidden"`
	EnableCache           bool     `mapstructure:"enable_cache"`
	CacheSize             int      `mapstructure:"cache_size"`
	Theme                 string   `mapstructure:"theme"`
	Highlight             bool     `mapstructure:"highlight"`
	Debug                 bool     `mapstructure:"debug"`
}

// DefaultConfig values
var DefaultConfig = Config{
	MaxFiles:              file_collector.DefaultMaxFiles,
	MaxFileSize:           file_collector.DefaultMaxTextFileSize,
	SampleSize:            file_collector.DefaultSampleSize,
	NonPrintableThreshold: file_collector.DefaultNonPrintableThreshold,
	ExtraExcludes:         []string{},
	IncludeHidden:         false,
	EnableCache:           true,
	CacheSize:             file_collector.DefaultCacheSize,
	Theme:                 "dracula",
	Highlight:             false,
	Debug:                 false,
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// CollectorOptions maps the configuration onto the file collector settings.
func (c *Config) CollectorOptions() file_collector.Options {
	return file_collector.Options{
		MaxFiles:              c.MaxFiles,
		MaxFileSize:           c.MaxFileSize,
		SampleSize:            c.SampleSize,
		NonPrintableThreshold: c.NonPrintableThreshold,
		ExtraExcludes:         c.ExtraExcludes,
		IncludeHidden:         c.IncludeHidden,
		EnableCache:           c.EnableCache,
		CacheSize:             c.CacheSize,
	}
}

// Validate rejects values the collector cannot work with.
func (c *Config) Validate() error {
	var problems []string
	if c.MaxFiles <= 0 {
		problems = append(problems, "max_files must be positive")
	}
	if c.MaxFileSize <= 0 {
		problems = append(problems, "max_file_size must be positive")
	}
	if c.SampleSize <= 0 {
		problems = append(problems, "sample_size must be positive")
	}
	if c.NonPrintableThreshold <= 0 || c.NonPrintableThreshold > 1 {
		problems = append(problems, "non_printable_threshold must be greater than 0 and at most 1")
	}
	if c.EnableCache && c.CacheSize <= 0 {
		problems = append(problems, "cache_size must be positive when enable_cache is set")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	var config *Config

	// A missing .env is normal
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType(GetConfigFileType(path))
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Bind CLI flags to override config values
	if rootCmd != nil {
		bindFlags(rootCmd)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("max_files", DefaultConfig.MaxFiles)
	viper.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
	viper.SetDefault("sample_size", DefaultConfig.SampleSize)
	viper.SetDefault("non_printable_threshold", DefaultConfig.NonPrintableThreshold)
	viper.SetDefault("extra_excludes", DefaultConfig.ExtraExcludes)
	viper.SetDefault("include_hidden", DefaultConfig.IncludeHidden)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_size", DefaultConfig.CacheSize)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("highlight", DefaultConfig.Highlight)
	viper.SetDefault("debug", DefaultConfig.Debug)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	for _, key := range []string{
		"max_files",
		"max_file_size",
		"sample_size",
		"non_printable_threshold",
		"extra_excludes",
		"include_hidden",
		"enable_cache",
		"cache_size",
		"theme",
		"highlight",
		"debug",
	} {
		_ = viper.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key))
	}
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("max_files", flags.Lookup("max_files"))
	_ = viper.BindPFlag("max_file_size", flags.Lookup("max_file_size"))
	_ = viper.BindPFlag("include_hidden", flags.Lookup("include_hidden"))
	_ = viper.BindPFlag("enable_cache", flags.Lookup("enable_cache"))
	_ = viper.BindPFlag("theme", flags.Lookup("theme"))
	_ = viper.BindPFlag("highlight", flags.Lookup("highlight"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().Int("max_files", DefaultConfig.MaxFiles, "Maximum number of files a single search may return before it is rejected.")
	rootCmd.PersistentFlags().Int64("max_file_size", DefaultConfig.MaxFileSize, "Files larger than this many bytes are never treated as text.")
	rootCmd.PersistentFlags().Bool("include_hidden", DefaultConfig.IncludeHidden, "Include files and folders whose name starts with a dot in searches.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Enable or disable the in-memory file content cache.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the highlighting theme for bundle output. (e.g., 'dracula', 'monokai', 'github')")
	rootCmd.PersistentFlags().Bool("highlight", DefaultConfig.Highlight, "Syntax highlight bundles printed to a terminal.")
	rootCmd.PersistentFlags().Bool("debug", DefaultConfig.Debug, "Enable debug logging.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// findConfigFile returns the first promptcat-config file present in cwd.
func findConfigFile(cwd string) string {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(cwd, configBaseName+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigWithCache loads configuration with caching support
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) (*Config, error) {
	configFilePath := cfgFile
	if configFilePath == "" {
		configFilePath = findConfigFile(cwd)
	}

	// If no config file exists, return default configuration loading
	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check file modification time
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		// File doesn't exist or error, fallback to regular loading
		return LoadConfigs(rootCmd, cwd)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists {
		// Check if file has been modified since cache
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.config, nil
		}
	}
	cacheMutex.RUnlock()

	config, err := LoadConfigs(rootCmd, cwd)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config, nil
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}
