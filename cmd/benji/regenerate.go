package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"benji/internal/cards"
	"benji/internal/config"
	"benji/internal/populate"
	"benji/internal/store"
)

func newRegenerateCmd(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Discard all sheets and populate a fresh generation",
		Long: "Deactivate the current generation, delete every sheet, create a " +
			"new active generation and populate it. Destructive; requires --force.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("regenerate deletes all sheets; re-run with --force to confirm")
			}

			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()

				if err := st.DeactivateAll(ctx); err != nil {
					return err
				}
				if err := st.DeleteAllSheets(ctx); err != nil {
					return err
				}

				gen, err := st.CreateActiveGeneration(ctx)
				if err != nil {
					return err
				}
				slog.Info("created generation", "code", gen.Code)

				pop := populate.New(st, cards.NewCryptoGenerator(), slog.Default())
				created, err := pop.Populate(ctx, gen, cfg.SheetsPerGeneration)
				if err != nil {
					return err
				}

				return writeGenerateResult(gen.Code, created, created, cfg.SheetsPerGeneration)
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting all existing sheets")
	return cmd
}
