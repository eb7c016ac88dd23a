// Package main is the entry point for bounds.
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
	"go.trai.ch/bounds/cmd/bounds/commands"
	"go.trai.ch/bounds/internal/app"
	"go.trai.ch/bounds/internal/core/domain"
	_ "go.trai.ch/bounds/internal/wiring"
)

// subcommandName is the argument cargo passes first when run as "cargo bounds".
const subcommandName = "bounds"

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// Interrupts cancel the context; the app restores the manifest on its way out.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	for _, opt := range opts {
		opt(components.App)
	}

	if len(args) > 0 && args[0] == subcommandName {
		args = args[1:]
	}

	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrBoundsFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
