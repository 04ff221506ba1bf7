package main

import (
	"github.com/spf13/cobra"

	"benji/internal/config"
	"benji/internal/models"
	"benji/internal/store"
)

func newStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active generation and its stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()

				gen, err := st.ActiveGeneration(ctx)
				if err != nil {
					return err
				}
				if gen == nil {
					payload := map[string]any{"active": false}
					return writeResult(payload, func() error {
						return writePlain("no active generation\n")
					})
				}

				total, err := st.CountSheets(ctx, gen.ID)
				if err != nil {
					return err
				}
				unassigned, err := st.CountSheetsByStatus(ctx, gen.ID, models.StatusUnassigned)
				if err != nil {
					return err
				}
				sold, err := st.CountSheetsByStatus(ctx, gen.ID, models.StatusSold)
				if err != nil {
					return err
				}

				payload := map[string]any{
					"active":          true,
					"generation_code": gen.Code,
					"created_at":      gen.CreatedAt,
					"total_sheets":    total,
					"unassigned":      unassigned,
					"sold":            sold,
				}
				return writeResult(payload, func() error {
					return writePlain("generation %s: %d sheets (%d unassigned, %d sold)\n",
						gen.Code, total, unassigned, sold)
				})
			})
		},
	}
}

func newCodesCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "List all generation codes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				codes, err := st.GenerationCodes(cmd.Context())
				if err != nil {
					return err
				}
				return writeResult(map[string]any{"codes": codes}, func() error {
					for _, code := range codes {
						if err := writePlain("%s\n", code); err != nil {
							return err
						}
					}
					return nil
				})
			})
		},
	}
}
