package cmd

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/promptcat/config"
	"github.com/meysamhadeli/promptcat/constants/lipgloss"
	"github.com/meysamhadeli/promptcat/file_collector"
	collector_contracts "github.com/meysamhadeli/promptcat/file_collector/contracts"
	"github.com/meysamhadeli/promptcat/logging"
	"github.com/meysamhadeli/promptcat/session"
	"github.com/meysamhadeli/promptcat/token_management"
	token_contracts "github.com/meysamhadeli/promptcat/token_management/contracts"
	"github.com/meysamhadeli/promptcat/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootDependencies is everything a subcommand needs, built once per invocation.
type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	Logger          *zap.Logger
	Collector       collector_contracts.IFileCollector
	TokenManagement token_contracts.ITokenManagement
	Session         *session.Session
}

// NewRootCmd builds the promptcat command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "promptcat",
		Short: "Collect text files into a single prompt-ready bundle.",
		Long: `promptcat gathers source and text files, either picked one by one or found by a
recursive search, and concatenates them into one bundle with begin/end markers so it can
be pasted into an LLM prompt. It also estimates how many tokens the bundle will cost.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
				return nil
			}
			return cmd.Help()
		},
	}

	config.InitFlags(rootCmd)

	rootCmd.AddCommand(
		newSearchCmd(),
		newBundleCmd(),
		newTokensCmd(),
		newSessionCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command and reports a failure on stderr.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		return 1
	}
	return 0
}

// handleRootCommand loads the configuration and wires the shared services.
func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	rootDependencies := &RootDependencies{}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}
	rootDependencies.Cwd = cwd

	rootDependencies.Config, err = config.LoadConfigWithCache(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	if err := logging.Setup(rootDependencies.Config.Debug, "promptcat", version.Version); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	rootDependencies.Logger = logging.Logger

	rootDependencies.Collector, err = file_collector.NewFileCollector(rootDependencies.Config.CollectorOptions(), rootDependencies.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file collector: %w", err)
	}

	rootDependencies.TokenManagement = token_management.NewTokenManager()
	rootDependencies.Session = session.NewSession(rootDependencies.Collector, rootDependencies.Logger)

	rootDependencies.Logger.Debug("Dependencies ready",
		zap.String("cwd", cwd),
		zap.Int("maxFiles", rootDependencies.Config.MaxFiles),
		zap.Bool("cache", rootDependencies.Config.EnableCache))

	return rootDependencies, nil
}
