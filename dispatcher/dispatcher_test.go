package dispatcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantArgs []string
	}{
		{"empty", "   ", "", nil},
		{"bare command", "/reload", "reload", []string{}},
		{"case folded", "/Reload", "reload", []string{}},
		{"arguments", "/search js,ts dist", "search", []string{"js,ts", "dist"}},
		{"quoted argument", `/folder "/tmp/my project"`, "folder", []string{"/tmp/my project"}},
		{"empty quoted argument", `/search "" node_modules`, "search", []string{"", "node_modules"}},
		{"extra spaces", "/remove    2  ", "remove", []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := ParseLine(tt.line)
			assert.Equal(t, tt.wantName, name)
			if tt.wantArgs == nil {
				assert.Nil(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, append([]string{}, args...))
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	d := New(nil)

	var gotArgs []string
	d.Register("echo", "/echo <text>", "Echo the arguments", func(ctx context.Context, args []string) (*Result, error) {
		gotArgs = args
		return &Result{Output: "ok"}, nil
	})
	d.Alias("e", "echo")

	result, err := d.Dispatch(context.Background(), "/echo a b")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Output)
	assert.Equal(t, []string{"a", "b"}, gotArgs)

	_, err = d.Dispatch(context.Background(), "/e c")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, gotArgs)

	_, err = d.Dispatch(context.Background(), "/nope")
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	_, err = d.Dispatch(context.Background(), "")
	assert.True(t, errors.Is(err, ErrEmptyCommand))
}

func TestDispatch_RejectsReentrantCommands(t *testing.T) {
	d := New(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	d.Register("slow", "/slow", "Block until released", func(ctx context.Context, args []string) (*Result, error) {
		close(started)
		<-release
		return &Result{}, nil
	})
	d.Register("fast", "/fast", "Return immediately", func(ctx context.Context, args []string) (*Result, error) {
		return &Result{}, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := d.Dispatch(context.Background(), "/slow")
		done <- err
	}()

	<-started
	_, err := d.Dispatch(context.Background(), "/fast")
	assert.True(t, errors.Is(err, ErrBusy))

	close(release)
	require.NoError(t, <-done)

	_, err = d.Dispatch(context.Background(), "/fast")
	assert.NoError(t, err)
}

func TestDispatch_HandlerErrorReleasesGuard(t *testing.T) {
	d := New(nil)
	boom := errors.New("boom")
	d.Register("fail", "/fail", "Always fail", func(ctx context.Context, args []string) (*Result, error) {
		return nil, boom
	})

	_, err := d.Dispatch(context.Background(), "/fail")
	assert.ErrorIs(t, err, boom)
	_, err = d.Dispatch(context.Background(), "/fail")
	assert.ErrorIs(t, err, boom)
}

func TestHelp(t *testing.T) {
	d := New(nil)
	noop := func(ctx context.Context, args []string) (*Result, error) { return &Result{}, nil }
	d.Register("reload", "/reload", "Reload all files", noop)
	d.Register("clear", "/clear", "Remove all files", noop)

	assert.Equal(t, "/clear   Remove all files\n/reload  Reload all files", d.Help())
}
