package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/cmd/flock/commands"
	"go.trai.ch/flock/internal/build"
)

type mockApp struct {
	showFunc     func(ctx context.Context, out io.Writer, paths []string) error
	checkFunc    func(ctx context.Context, path string) error
	saveFunc     func(ctx context.Context, in, out string) error
	snapshotFunc func(ctx context.Context, in string) (string, error)
	fetchFunc    func(ctx context.Context, digest string) ([]byte, error)
	watchFunc    func(ctx context.Context, path string, out io.Writer) error
}

func (m *mockApp) Show(ctx context.Context, out io.Writer, paths []string) error {
	if m.showFunc != nil {
		return m.showFunc(ctx, out, paths)
	}
	return nil
}

func (m *mockApp) Check(ctx context.Context, path string) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, path)
	}
	return nil
}

func (m *mockApp) Save(ctx context.Context, in, out string) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, in, out)
	}
	return nil
}

func (m *mockApp) Snapshot(ctx context.Context, in string) (string, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx, in)
	}
	return "", nil
}

func (m *mockApp) Fetch(ctx context.Context, digest string) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, digest)
	}
	return nil, nil
}

func (m *mockApp) Watch(ctx context.Context, path string, out io.Writer) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, path, out)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Show(t *testing.T) {
	t.Run("passes every sheet", func(t *testing.T) {
		var captured []string
		mock := &mockApp{
			showFunc: func(_ context.Context, out io.Writer, paths []string) error {
				captured = paths
				_, err := io.WriteString(out, "shown\n")
				return err
			},
		}

		out, err := execute(t, mock, "show", "a.yaml", "b.yaml")
		require.NoError(t, err)
		assert.Equal(t, []string{"a.yaml", "b.yaml"}, captured)
		assert.Equal(t, "shown\n", out)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			showFunc: func(context.Context, io.Writer, []string) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Check(t *testing.T) {
	var captured string
	called := false
	mock := &mockApp{
		checkFunc: func(_ context.Context, path string) error {
			captured = path
			called = true
			return nil
		},
	}

	_, err := execute(t, mock, "check")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, captured)

	_, err = execute(t, mock, "check", "hero.yaml")
	require.NoError(t, err)
	assert.Equal(t, "hero.yaml", captured)

	_, err = execute(t, mock, "check", "a.yaml", "b.yaml")
	require.Error(t, err)
}

func TestCommands_Save(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var in, out string
		mock := &mockApp{
			saveFunc: func(_ context.Context, i, o string) error {
				in, out = i, o
				return nil
			},
		}

		_, err := execute(t, mock, "save", "--infile", "hero.yaml", "-o", "out.yaml")
		require.NoError(t, err)
		assert.Equal(t, "hero.yaml", in)
		assert.Equal(t, "out.yaml", out)
	})

	t.Run("requires an output file", func(t *testing.T) {
		mock := &mockApp{
			saveFunc: func(context.Context, string, string) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, mock, "save", "--infile", "hero.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outfile")
	})
}

func TestCommands_Snapshot(t *testing.T) {
	mock := &mockApp{
		snapshotFunc: func(_ context.Context, in string) (string, error) {
			assert.Equal(t, "hero.yaml", in)
			return "0123456789abcdef", nil
		},
		fetchFunc: func(_ context.Context, digest string) ([]byte, error) {
			assert.Equal(t, "0123456789abcdef", digest)
			return []byte(`{"level":8}`), nil
		},
	}

	out, err := execute(t, mock, "snapshot", "hero.yaml")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef\n", out)

	out, err = execute(t, mock, "snapshot", "--get", "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "{\"level\":8}\n", out)
}

func TestCommands_Watch(t *testing.T) {
	var captured string
	mock := &mockApp{
		watchFunc: func(_ context.Context, path string, _ io.Writer) error {
			captured = path
			return nil
		},
	}

	_, err := execute(t, mock, "watch", "hero.yaml")
	require.NoError(t, err)
	assert.Equal(t, "hero.yaml", captured)

	_, err = execute(t, mock, "watch")
	require.Error(t, err)
}

func TestCommands_JSONLogs(t *testing.T) {
	var enabled bool
	cli := commands.New(&mockApp{}, commands.WithLogFormat(func(json bool) { enabled = json }))
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"check", "--json-logs"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, enabled)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "flock version "+build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit: "+build.Commit)
}
