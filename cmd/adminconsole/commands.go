package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zombiebrand/adminconsole/internal/database"
	"github.com/zombiebrand/adminconsole/internal/database/repository"
	"github.com/zombiebrand/adminconsole/internal/server"
	"github.com/zombiebrand/adminconsole/internal/service"
	"github.com/zombiebrand/adminconsole/internal/testdata"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the article API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = rt.cfg.Server.Addr
			}
			srv := server.New(localBackend(rt.db, rt.log), rt.log)
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (defaults to server.addr)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			version, dirty, err := database.SchemaVersion(rt.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo articles, plus optional random samples",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := database.SeedDefaults(cmd.Context(), rt.db); err != nil {
				return err
			}
			samples, _ := cmd.Flags().GetInt("samples")
			days, _ := cmd.Flags().GetInt("days")
			ids, err := testdata.Generate(cmd.Context(), repository.NewArticleRepo(rt.db), testdata.Options{Count: samples, Days: days})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded (%d samples)\n", len(ids))
			return nil
		},
	}
	cmd.Flags().Int("samples", 0, "number of random sample articles to add")
	cmd.Flags().Int("days", 7, "spread sample creation times over this many days")
	return cmd
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every article",
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("reset deletes all articles; pass --yes to confirm")
			}
			rt, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer rt.Close()
			m := &service.MaintenanceService{DB: rt.db}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all articles deleted")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm the reset")
	return cmd
}
