package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zombiebrand/adminconsole/internal/config"
	"github.com/zombiebrand/adminconsole/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "adminconsole",
		Short:         "Terminal admin console for articles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, _ := cmd.Flags().GetString("open")
			return runConsole(cmd, start)
		},
	}
	cmd.Flags().String("open", "", "route to open first, e.g. /content/article")
	cmd.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newResetCmd())
	return cmd
}

func runConsole(cmd *cobra.Command, start string) error {
	ctx := cmd.Context()
	rt, err := setup(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	b, err := rt.backend()
	if err != nil {
		return err
	}
	checker, err := newChecker(rt.cfg.Auth)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Config:  rt.cfg,
		Backend: b,
		Checker: checker,
		Logger:  rt.log,
		Save:    config.Save,
		Start:   start,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
