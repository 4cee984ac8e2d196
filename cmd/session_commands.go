package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/meysamhadeli/promptcat/constants/lipgloss"
	"github.com/meysamhadeli/promptcat/dispatcher"
	"github.com/meysamhadeli/promptcat/file_collector"
	picker_contracts "github.com/meysamhadeli/promptcat/picker/contracts"
	"github.com/meysamhadeli/promptcat/session"
	"github.com/meysamhadeli/promptcat/utils"
	"github.com/meysamhadeli/promptcat/version"
	"go.uber.org/multierr"
)

var (
	errExitSession  = errors.New("exit session")
	errNoFolder     = errors.New("No folder selected. Use /dir or /folder <path> first")
	errEmptySession = errors.New("The session is empty. Add files with /browse or /search")
)

// sessionController holds what the slash-command handlers work on.
type sessionController struct {
	deps   *RootDependencies
	picker picker_contracts.IPicker
	reader *bufio.Reader
	out    io.Writer
}

func newSessionDispatcher(c *sessionController) *dispatcher.Dispatcher {
	d := dispatcher.New(c.deps.Logger)

	d.Register("browse", "/browse", "Pick a single file and add it", c.handleBrowse)
	d.Register("dir", "/dir", "Pick the folder used by /search", c.handleDir)
	d.Register("folder", "/folder [path]", "Show or set the folder used by /search", c.handleFolder)
	d.Register("search", "/search [ext] [exclude]", "Search the folder, e.g. /search js,ts dist or /search ext=go exclude=vendor", c.handleSearch)
	d.Register("remove", "/remove <n>", "Remove the file at position n", c.handleRemove)
	d.Register("reload", "/reload", "Re-read every file from disk", c.handleReload)
	d.Register("clear", "/clear", "Remove all files (asks first)", c.handleClear)
	d.Register("list", "/list [filter]", "List the files, fuzzy filtered by path", c.handleList)
	d.Register("show", "/show", "Print the bundle", c.handleShow)
	d.Register("copy", "/copy", "Copy the bundle to the clipboard", c.handleCopy)
	d.Register("tokens", "/tokens", "Show the approximate token count", c.handleTokens)
	d.Register("cache", "/cache [reset]", "Show content cache statistics, or reset the caches", c.handleCache)
	d.Register("version", "/version", "Show the version", c.handleVersion)
	d.Register("exit", "/exit", "Leave the session", c.handleExit)

	d.Register("help", "/help", "Show this help", func(ctx context.Context, args []string) (*dispatcher.Result, error) {
		return &dispatcher.Result{Output: lipgloss.BoxStyle.Render(d.Help())}, nil
	})

	d.Alias("quit", "exit")
	d.Alias("ls", "list")
	d.Alias("rm", "remove")
	d.Alias("add", "browse")

	return d
}

// startFolder is where pickers open: the last folder, else the working directory.
func (c *sessionController) startFolder() string {
	if folder, ok := c.deps.Session.LastFolder(); ok {
		return folder
	}
	return c.deps.Cwd
}

// mutated recomputes the bundle estimate after the session changed.
func (c *sessionController) mutated(notice string) *dispatcher.Result {
	tokens := c.deps.TokenManagement.UpdateTokens(c.deps.Session.Content())
	status := fmt.Sprintf("%d files | %s", c.deps.Session.Len(), c.deps.TokenManagement.FormatTokens(tokens))
	return &dispatcher.Result{Notice: notice, Output: lipgloss.BoxStyle.Render(status)}
}

func (c *sessionController) handleBrowse(ctx context.Context, args []string) (*dispatcher.Result, error) {
	path, err := c.picker.SelectFile(c.startFolder())
	if err != nil {
		return nil, err
	}
	c.deps.Session.SetLastFolder(filepath.Dir(path))

	file, err := c.deps.Collector.LoadTextFile(path)
	if err != nil {
		return nil, err
	}

	c.deps.Session.Add(file)
	return c.mutated(fmt.Sprintf("Added %s", file.Path)), nil
}

func (c *sessionController) handleDir(ctx context.Context, args []string) (*dispatcher.Result, error) {
	dir, err := c.picker.SelectDirectory(c.startFolder())
	if err != nil {
		return nil, err
	}
	c.deps.Session.SetLastFolder(dir)
	return &dispatcher.Result{Notice: fmt.Sprintf("Folder set to %s. Use /search to collect files", dir)}, nil
}

func (c *sessionController) handleFolder(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if len(args) == 0 {
		folder, ok := c.deps.Session.LastFolder()
		if !ok {
			return nil, errNoFolder
		}
		return &dispatcher.Result{Output: folder}, nil
	}

	folder, err := filepath.Abs(strings.Join(args, " "))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("directory %s: %w", folder, file_collector.ErrNotFound)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", folder, file_collector.ErrNotADirectory)
	}

	c.deps.Session.SetLastFolder(folder)
	return &dispatcher.Result{Notice: fmt.Sprintf("Folder set to %s", folder)}, nil
}

// parseSearchArgs accepts "ext=js,ts exclude=dist" or positional "js,ts dist".
func parseSearchArgs(args []string) (string, string, error) {
	var extensions, exclude string
	positional := 0
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if found {
			switch strings.ToLower(key) {
			case "ext", "extensions":
				extensions = value
			case "exclude", "excludes":
				exclude = value
			default:
				return "", "", fmt.Errorf("unknown search option %q (use ext= or exclude=)", key)
			}
			continue
		}

		switch positional {
		case 0:
			extensions = arg
		case 1:
			exclude = arg
		default:
			return "", "", fmt.Errorf("too many search arguments: %q", arg)
		}
		positional++
	}
	return extensions, exclude, nil
}

func (c *sessionController) handleSearch(ctx context.Context, args []string) (*dispatcher.Result, error) {
	extensions, exclude, err := parseSearchArgs(args)
	if err != nil {
		return nil, err
	}

	folder, ok := c.deps.Session.LastFolder()
	if !ok {
		return nil, errNoFolder
	}

	spinner, _ := newSpinner(c.out).Start("Searching files...")
	result, err := runSearch(ctx, c.deps, folder, extensions, exclude)
	_ = spinner.Stop()
	if err != nil {
		return nil, err
	}

	if result.NoMatches() {
		return &dispatcher.Result{Notice: file_collector.ErrNoMatches.Error()}, nil
	}

	if len(result.Files) == 0 {
		return &dispatcher.Result{Notice: "No files added", Warnings: result.Errors}, nil
	}

	printSearchResult(c.out, result, c.deps)

	add, err := utils.ConfirmPrompt(c.out, c.reader, fmt.Sprintf("Add %d files to the session?", len(result.Files)))
	if err != nil {
		return nil, err
	}
	if !add {
		return &dispatcher.Result{Notice: "Search results discarded"}, nil
	}

	c.deps.Session.AddAll(result.Files)
	return c.mutated(fmt.Sprintf("Added %d files", len(result.Files))), nil
}

func (c *sessionController) handleRemove(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if len(args) != 1 {
		return nil, errors.New("usage: /remove <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("%q is not a file number", args[0])
	}

	removed, err := c.deps.Session.Remove(n - 1)
	if errors.Is(err, session.ErrIndexOutOfRange) {
		return nil, fmt.Errorf("no file at position %d (the session has %d files)", n, c.deps.Session.Len())
	}
	if err != nil {
		return nil, err
	}

	return c.mutated(fmt.Sprintf("Removed %s", removed.Path)), nil
}

func (c *sessionController) handleReload(ctx context.Context, args []string) (*dispatcher.Result, error) {
	before := c.deps.Session.Len()
	err := c.deps.Session.ReloadAll()

	var warnings []string
	for _, reloadErr := range multierr.Errors(err) {
		warnings = append(warnings, reloadErr.Error())
	}

	result := c.mutated(fmt.Sprintf("Reloaded %d of %d files", c.deps.Session.Len(), before))
	result.Warnings = warnings
	return result, nil
}

func (c *sessionController) handleClear(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if c.deps.Session.Len() == 0 {
		return &dispatcher.Result{Notice: "The session is already empty"}, nil
	}

	cleared, err := c.deps.Session.Clear(func() (bool, error) {
		return utils.ConfirmPrompt(c.out, c.reader, "Remove all files from the session?")
	})
	if err != nil {
		return nil, err
	}
	if !cleared {
		return &dispatcher.Result{Notice: "Clear cancelled"}, nil
	}

	c.deps.TokenManagement.ClearToken()
	return c.mutated("Session cleared"), nil
}

func (c *sessionController) handleList(ctx context.Context, args []string) (*dispatcher.Result, error) {
	files := c.deps.Session.Files()
	if len(files) == 0 {
		return &dispatcher.Result{Notice: errEmptySession.Error()}, nil
	}

	// Paths are shown and matched relative to the last folder
	base, _ := c.deps.Session.LastFolder()
	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = displayPath(base, file.Path)
	}

	filter := strings.Join(args, " ")
	if filter == "" {
		return &dispatcher.Result{Output: numberedList(paths, nil)}, nil
	}

	ranks := fuzzy.RankFindNormalizedFold(filter, paths)
	if len(ranks) == 0 {
		return &dispatcher.Result{Notice: fmt.Sprintf("No files match %q", filter)}, nil
	}
	sort.Stable(ranks)

	matched := make([]string, len(ranks))
	indexes := make([]int, len(ranks))
	for i, rank := range ranks {
		matched[i] = rank.Target
		indexes[i] = rank.OriginalIndex
	}
	return &dispatcher.Result{Output: numberedList(matched, indexes)}, nil
}

func (c *sessionController) handleShow(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if c.deps.Session.Len() == 0 {
		return &dispatcher.Result{Notice: errEmptySession.Error()}, nil
	}
	if err := renderBundle(c.out, c.deps.Session.Files(), c.deps.Config.Theme, c.deps.Config.Highlight); err != nil {
		return nil, fmt.Errorf("failed to write bundle: %w", err)
	}
	return c.mutated(""), nil
}

func (c *sessionController) handleCopy(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if c.deps.Session.Len() == 0 {
		return nil, errEmptySession
	}
	content := c.deps.Session.Content()
	if err := utils.CopyToClipboard(content); err != nil {
		return nil, err
	}
	tokens := c.deps.TokenManagement.UpdateTokens(content)
	return &dispatcher.Result{Notice: fmt.Sprintf("Copied %d files to the clipboard (%s)", c.deps.Session.Len(), c.deps.TokenManagement.FormatTokens(tokens))}, nil
}

func (c *sessionController) handleTokens(ctx context.Context, args []string) (*dispatcher.Result, error) {
	tokens := c.deps.TokenManagement.UpdateTokens(c.deps.Session.Content())
	return &dispatcher.Result{Output: c.deps.TokenManagement.FormatTokens(tokens)}, nil
}

func (c *sessionController) handleCache(ctx context.Context, args []string) (*dispatcher.Result, error) {
	if len(args) == 0 {
		var sb strings.Builder
		printCacheStats(&sb, c.deps.Collector.GetCacheStats())
		printIgnoreCacheStats(&sb, utils.GetIgnoreCacheStats())
		return &dispatcher.Result{Output: strings.TrimSuffix(sb.String(), "\n")}, nil
	}
	if len(args) != 1 || args[0] != "reset" {
		return nil, errors.New("usage: /cache [reset]")
	}

	c.deps.Collector.ClearCache()
	utils.ClearIgnoreCache()
	return &dispatcher.Result{Notice: "Caches have been reset"}, nil
}

func (c *sessionController) handleVersion(ctx context.Context, args []string) (*dispatcher.Result, error) {
	return &dispatcher.Result{Output: version.Get().String()}, nil
}

func (c *sessionController) handleExit(ctx context.Context, args []string) (*dispatcher.Result, error) {
	return nil, errExitSession
}
