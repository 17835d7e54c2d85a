// Package main is the entry point for the flock command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/flock/cmd/flock/commands"
	"go.trai.ch/flock/internal/app"
	"go.trai.ch/flock/internal/core/domain"
	_ "go.trai.ch/flock/internal/wiring"
)

// ComponentProvider returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

type jsonSwitch interface {
	SetJSON(bool)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, provider ComponentProvider) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// No logger yet.
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	var opts []commands.Option
	if s, ok := components.Logger.(jsonSwitch); ok {
		opts = append(opts, commands.WithLogFormat(s.SetJSON))
	}

	cli := commands.New(components.App, opts...)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// Problems were already reported one by one.
		if errors.Is(err, domain.ErrCheckFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
