package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/meysamhadeli/promptcat/file_collector/models"
	"github.com/meysamhadeli/promptcat/session"
	"github.com/meysamhadeli/promptcat/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type searchOptions struct {
	extensions string
	exclude    string
	format     string
	copy       bool
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	searchCmd := &cobra.Command{
		Use:   "search [folder]",
		Short: "Recursively find the text files in a folder that match the filters.",
		Long: `The 'search' subcommand walks a folder (the working directory by default) and collects
every text file whose extension matches --ext, skipping node_modules, .git and any folder
named in --exclude. Binary files are skipped silently; files that cannot be read are
listed as errors. A search matching more files than max_files is rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}
			folder := rootDependencies.Cwd
			if len(args) == 1 {
				folder = args[0]
			}
			return handleSearchCommand(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), rootDependencies, folder, opts)
		},
	}

	searchCmd.Flags().StringVarP(&opts.extensions, "ext", "e", "", "Comma separated extensions to include, e.g. 'js,ts,.md'. Empty matches every file.")
	searchCmd.Flags().StringVarP(&opts.exclude, "exclude", "x", "", "Comma separated folder names to skip in addition to node_modules and .git.")
	searchCmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format: 'text', 'json' or 'yaml'.")
	searchCmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the bundle of the found files to the clipboard.")

	return searchCmd
}

func handleSearchCommand(ctx context.Context, out io.Writer, errOut io.Writer, rootDependencies *RootDependencies, folder string, opts *searchOptions) error {
	if opts.format != formatText && opts.format != formatJSON && opts.format != formatYAML {
		return fmt.Errorf("unknown format %q (use text, json or yaml)", opts.format)
	}

	spinner, _ := newSpinner(errOut).Start("Searching files...")
	result, err := runSearch(ctx, rootDependencies, folder, opts.extensions, opts.exclude)
	_ = spinner.Stop()
	if err != nil {
		return err
	}

	switch opts.format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case formatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	default:
		printSearchResult(out, result, rootDependencies)
	}

	if opts.copy && len(result.Files) > 0 {
		if err := utils.CopyToClipboard(session.Bundle(result.Files)); err != nil {
			printWarning(errOut, err.Error())
		} else {
			printSuccess(errOut, fmt.Sprintf("Copied %d files to the clipboard", len(result.Files)))
		}
	}

	return nil
}

// runSearch remembers folder as the session's last folder, then expands the
// filters, adds the folder's .promptcat-ignore patterns and runs the search.
// The folder is remembered even when the search fails.
func runSearch(ctx context.Context, rootDependencies *RootDependencies, folder string, extensionsCsv string, excludeCsv string) (*models.SearchResult, error) {
	base, err := filepath.Abs(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", folder, err)
	}

	rootDependencies.Session.SetLastFolder(base)

	query := file_collector.NewSearchQuery(base, extensionsCsv, excludeCsv)

	extraIgnore, err := utils.GetIgnorePatterns(base)
	if err != nil {
		rootDependencies.Logger.Warn("Ignoring unreadable ignore file", zap.String("folder", base), zap.Error(err))
	} else {
		query.ExtraIgnore = extraIgnore
	}

	return rootDependencies.Collector.Search(ctx, query)
}

func printSearchResult(out io.Writer, result *models.SearchResult, rootDependencies *RootDependencies) {
	if result.NoMatches() {
		printInfo(out, file_collector.ErrNoMatches.Error())
		return
	}

	base, _ := rootDependencies.Session.LastFolder()
	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, displayPath(base, file.Path))
	}
	if len(paths) > 0 {
		fmt.Fprintln(out, numberedList(paths, nil))
	}

	for _, message := range result.Errors {
		printWarning(out, message)
	}

	tokens := rootDependencies.TokenManagement.EstimateTokens(session.Bundle(result.Files))
	fmt.Fprintf(out, "%d files, %s\n", len(result.Files), rootDependencies.TokenManagement.FormatTokens(tokens))
}

// displayPath shows path relative to base when it lies below it.
func displayPath(base string, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
