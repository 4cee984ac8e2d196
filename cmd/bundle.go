package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meysamhadeli/promptcat/constants/lipgloss"
	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/meysamhadeli/promptcat/utils"
	"github.com/spf13/cobra"
)

type bundleOptions struct {
	dir        string
	extensions string
	exclude    string
	copy       bool
	stats      bool
}

func newBundleCmd() *cobra.Command {
	opts := &bundleOptions{}

	bundleCmd := &cobra.Command{
		Use:   "bundle [file...]",
		Short: "Concatenate files into a prompt-ready bundle and print it.",
		Long: `The 'bundle' subcommand loads the given files, plus every text file found under --dir
when it is set, and prints them as one bundle. Each file is wrapped in
'-- begin: <path>' and '-- end: <path>' markers and blocks are separated by a blank line.
The approximate token count is printed to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.dir == "" {
				return errors.New("nothing to bundle: pass files or --dir")
			}
			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}
			return handleBundleCommand(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), rootDependencies, args, opts)
		},
	}

	bundleCmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "Folder to search recursively for files to add after the explicit ones.")
	bundleCmd.Flags().StringVarP(&opts.extensions, "ext", "e", "", "Comma separated extensions to include when searching --dir.")
	bundleCmd.Flags().StringVarP(&opts.exclude, "exclude", "x", "", "Comma separated folder names to skip when searching --dir.")
	bundleCmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the bundle to the clipboard instead of printing it.")
	bundleCmd.Flags().BoolVarP(&opts.stats, "stats", "s", false, "Print content cache statistics after bundling.")

	return bundleCmd
}

func handleBundleCommand(ctx context.Context, out io.Writer, errOut io.Writer, rootDependencies *RootDependencies, paths []string, opts *bundleOptions) error {
	s := rootDependencies.Session

	for _, path := range paths {
		file, err := rootDependencies.Collector.LoadTextFile(path)
		if err != nil {
			printWarning(errOut, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		s.Add(file)
	}

	if opts.dir != "" {
		result, err := runSearch(ctx, rootDependencies, opts.dir, opts.extensions, opts.exclude)
		if err != nil {
			return err
		}
		for _, message := range result.Errors {
			printWarning(errOut, message)
		}
		s.AddAll(result.Files)
	}

	if s.Len() == 0 {
		return file_collector.ErrNoMatches
	}

	content := s.Content()
	tokens := rootDependencies.TokenManagement.UpdateTokens(content)

	if opts.copy {
		if err := utils.CopyToClipboard(content); err != nil {
			return err
		}
		printSuccess(errOut, fmt.Sprintf("Copied %d files to the clipboard", s.Len()))
	} else if err := renderBundle(out, s.Files(), rootDependencies.Config.Theme, rootDependencies.Config.Highlight); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	fmt.Fprintln(errOut, lipgloss.Info.Render(rootDependencies.TokenManagement.FormatTokens(tokens)))

	if opts.stats {
		printCacheStats(errOut, rootDependencies.Collector.GetCacheStats())
	}

	return nil
}

func printCacheStats(w io.Writer, stats map[string]interface{}) {
	fmt.Fprintln(w, lipgloss.Info.Render("Cache Statistics:"))
	if enabled, ok := stats["cache_enabled"].(bool); !ok || !enabled {
		fmt.Fprintln(w, "  Cache is disabled")
		return
	}

	if files, ok := stats["cache_files"].(int); ok {
		fmt.Fprintf(w, "  Cached Files: %d\n", files)
	}
	if size, ok := stats["total_size"].(int64); ok {
		fmt.Fprintf(w, "  Total Size: %.2f MB\n", float64(size)/(1024*1024))
	}
	if hitRate, ok := stats["hit_rate"].(float64); ok {
		fmt.Fprintf(w, "  Hit Rate: %.1f%%\n", hitRate)
	}

	for _, key := range []string{"cache_hits", "cache_misses", "evictions"} {
		if value, ok := stats[key]; ok {
			fmt.Fprintf(w, "  %s: %v\n", key, value)
		}
	}
}

func printIgnoreCacheStats(w io.Writer, stats map[string]interface{}) {
	if files, ok := stats["cached_files"].(int); ok {
		fmt.Fprintf(w, "  Ignore Files: %d\n", files)
	}
}
