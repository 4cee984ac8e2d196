package cmd

import (
	"fmt"
	"io"

	"github.com/meysamhadeli/promptcat/session"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Estimate the token count of files or of standard input.",
		Long: `The 'tokens' subcommand estimates how many LLM tokens text will use, at roughly four
characters per token. With file arguments the estimate covers their bundle exactly as
'bundle' would print it; without arguments standard input is read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}
			return handleTokensCommand(cmd.InOrStdin(), cmd.OutOrStdout(), rootDependencies, args)
		},
	}
}

func handleTokensCommand(in io.Reader, out io.Writer, rootDependencies *RootDependencies, paths []string) error {
	var text string
	if len(paths) == 0 {
		content, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read standard input: %w", err)
		}
		text = string(content)
	} else {
		for _, path := range paths {
			file, err := rootDependencies.Collector.LoadTextFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rootDependencies.Session.Add(file)
		}
		text = session.Bundle(rootDependencies.Session.Files())
	}

	tokens := rootDependencies.TokenManagement.UpdateTokens(text)
	fmt.Fprintln(out, rootDependencies.TokenManagement.FormatTokens(tokens))
	return nil
}
