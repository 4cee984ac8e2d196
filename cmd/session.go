package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/meysamhadeli/promptcat/constants/lipgloss"
	"github.com/meysamhadeli/promptcat/dispatcher"
	"github.com/meysamhadeli/promptcat/file_collector"
	"github.com/meysamhadeli/promptcat/picker"
	"github.com/meysamhadeli/promptcat/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session [folder]",
		Short: "Build a bundle interactively, one slash command at a time.",
		Long: `The 'session' subcommand opens an interactive prompt. Files are added with /browse or
found with /search in the folder chosen by /dir or /folder, removed with /remove and
re-read from disk with /reload. Every change updates the token estimate of the bundle,
which can be printed with /show or copied with /copy. Type /help for all commands.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootDependencies, err := handleRootCommand(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				folder, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if info, err := os.Stat(folder); err != nil || !info.IsDir() {
					return fmt.Errorf("%s: %w", folder, file_collector.ErrNotADirectory)
				}
				rootDependencies.Session.SetLastFolder(folder)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			controller := &sessionController{
				deps:   rootDependencies,
				picker: picker.NewPicker(),
				reader: bufio.NewReader(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return handleSessionCommand(ctx, controller)
		},
	}
}

func handleSessionCommand(ctx context.Context, c *sessionController) error {
	d := newSessionDispatcher(c)

	fmt.Fprintln(c.out, lipgloss.BoxStyle.Render("/help  Help for session commands"))
	if folder, ok := c.deps.Session.LastFolder(); ok {
		printInfo(c.out, fmt.Sprintf("Folder: %s", folder))
	}

	for {
		userInput, err := utils.InputPromptWithContext(ctx, c.out, c.reader)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, utils.ErrInputClosed) {
				fmt.Fprintln(c.out, lipgloss.Yellow.Render("🔄 Exiting..."))
				return nil
			}
			return err
		}

		if userInput == "" {
			continue
		}
		if !strings.HasPrefix(userInput, "/") {
			printInfo(c.out, "Commands start with '/'. Type /help to list them")
			continue
		}

		result, err := d.Dispatch(ctx, userInput)
		if errors.Is(err, errExitSession) {
			return nil
		}
		renderResult(c.out, result, err)
		if err != nil {
			c.deps.Logger.Debug("Command failed", zap.String("input", userInput), zap.Error(err))
		}
	}
}

// renderResult prints a handler outcome. Cancelled pickers and other
// non-fatal errors are shown as notifications and the session continues.
func renderResult(out io.Writer, result *dispatcher.Result, err error) {
	if err != nil {
		if errors.Is(err, file_collector.ErrNoSelection) {
			printInfo(out, err.Error())
		} else {
			printError(out, err.Error())
		}
		return
	}
	if result == nil {
		return
	}

	for _, warning := range result.Warnings {
		printWarning(out, warning)
	}
	if result.Notice != "" {
		printSuccess(out, result.Notice)
	}
	if result.Output != "" {
		fmt.Fprintln(out, result.Output)
	}
}
