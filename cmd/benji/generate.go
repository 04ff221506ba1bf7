package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"benji/internal/cards"
	"benji/internal/config"
	"benji/internal/models"
	"benji/internal/populate"
	"benji/internal/store"
)

func newGenerateCmd(cfg *config.Config) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Populate the active generation with unique sheets",
		Long: "Populate the active generation (creating one if none exists) with " +
			"up to the requested number of new sheets. Safe to re-run: population " +
			"resumes after the highest existing sheet number.",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := count
			if target <= 0 {
				target = cfg.SheetsPerGeneration
			}

			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()

				gen, err := st.ActiveGeneration(ctx)
				if err != nil {
					return err
				}
				if gen == nil {
					gen, err = st.CreateActiveGeneration(ctx)
					if err != nil {
						return err
					}
					slog.Info("created generation", "code", gen.Code)
				}

				existing, err := st.CountSheets(ctx, gen.ID)
				if err != nil {
					return err
				}
				if existing >= models.MaxSheetNumber {
					return writeGenerateResult(gen.Code, existing, 0, target)
				}

				pop := populate.New(st, cards.NewCryptoGenerator(), slog.Default())
				created, err := pop.Populate(ctx, gen, target)
				if err != nil {
					return err
				}
				if created < target {
					slog.Warn("population stopped at the sheet ceiling",
						"generation", gen.Code, "created", created, "target", target)
				}

				return writeGenerateResult(gen.Code, existing+created, created, target)
			})
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of sheets to add (default sheets_per_generation)")
	return cmd
}

func writeGenerateResult(code string, total, created, target int) error {
	payload := map[string]any{
		"generation_code": code,
		"total_sheets":    total,
		"created":         created,
		"target":          target,
	}
	return writeResult(payload, func() error {
		return writePlain("generation %s: %d sheets total (%d new of %d requested)\n",
			code, total, created, target)
	})
}
