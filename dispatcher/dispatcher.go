// Package dispatcher routes slash commands typed in an interactive session to
// their handlers, running at most one handler at a time.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBusy           = errors.New("another command is still running")
	ErrEmptyCommand   = errors.New("empty command")
)

// Result is what a handler hands back to be rendered.
type Result struct {
	Output   string
	Notice   string
	Warnings []string
}

// Handler runs one command with the arguments that followed its name.
type Handler func(ctx context.Context, args []string) (*Result, error)

type command struct {
	name    string
	usage   string
	help    string
	handler Handler
}

// Dispatcher holds the registered commands.
type Dispatcher struct {
	commands map[string]command
	aliases  map[string]string
	running  sync.Mutex
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		commands: make(map[string]command),
		aliases:  make(map[string]string),
		logger:   logger,
	}
}

// Register adds a command. name is given without the leading slash.
func (d *Dispatcher) Register(name string, usage string, help string, handler Handler) {
	d.commands[name] = command{name: name, usage: usage, help: help, handler: handler}
}

// Alias makes alias resolve to an already registered command.
func (d *Dispatcher) Alias(alias string, name string) {
	d.aliases[alias] = name
}

// Dispatch parses line and runs the matching handler. A command issued while
// another one is still running fails with ErrBusy.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (*Result, error) {
	name, args := ParseLine(line)
	if name == "" {
		return nil, ErrEmptyCommand
	}

	if target, ok := d.aliases[name]; ok {
		name = target
	}

	cmd, ok := d.commands[name]
	if !ok {
		return nil, fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
	}

	if !d.running.TryLock() {
		d.logger.Debug("Rejected command while busy", zap.String("command", name))
		return nil, ErrBusy
	}
	defer d.running.Unlock()

	d.logger.Debug("Dispatching command", zap.String("command", name), zap.Strings("args", args))
	return cmd.handler(ctx, args)
}

// Help lists every command with its usage, sorted by name.
func (d *Dispatcher) Help() string {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	width := 0
	for _, name := range names {
		width = max(width, len(d.commands[name].usage))
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		cmd := d.commands[name]
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, cmd.usage, cmd.help))
	}
	return strings.Join(lines, "\n")
}

// ParseLine splits "/name arg1 arg2" into its command name and arguments.
// Double quotes group words; "" is an empty argument.
func ParseLine(line string) (string, []string) {
	fields := splitFields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	return name, fields[1:]
}

func splitFields(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes, hasField := false, false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			hasField = true
		case (r == ' ' || r == '\t') && !inQuotes:
			if hasField {
				fields = append(fields, current.String())
				current.Reset()
				hasField = false
			}
		default:
			current.WriteRune(r)
			hasField = true
		}
	}
	if hasField {
		fields = append(fields, current.String())
	}
	return fields
}
