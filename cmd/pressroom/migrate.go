package main

import (
	"fmt"

	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(cfg config.Config, logg *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect content store migrations",
	}

	run := func(name string, fn func(cmd *cobra.Command, store *contentStore) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: fmt.Sprintf("Migrations: %s", name),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := openContentStore(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer store.close()
				return fn(cmd, store)
			},
		}
	}

	cmd.AddCommand(
		run("up", func(cmd *cobra.Command, store *contentStore) error {
			if err := storage.MigrateUp(cmd.Context(), store.db, cfg.ContentStore.Driver); err != nil {
				return err
			}
			logg.Info("migrations applied", zap.String("driver", cfg.ContentStore.Driver))
			return nil
		}),
		run("down", func(cmd *cobra.Command, store *contentStore) error {
			if err := storage.MigrateDown(cmd.Context(), store.db, cfg.ContentStore.Driver); err != nil {
				return err
			}
			logg.Info("rolled back one migration", zap.String("driver", cfg.ContentStore.Driver))
			return nil
		}),
		run("status", func(cmd *cobra.Command, store *contentStore) error {
			return storage.MigrateStatus(cmd.Context(), store.db, cfg.ContentStore.Driver)
		}),
	)

	return cmd
}
