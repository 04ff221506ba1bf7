package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"benji/internal/archive"
	"benji/internal/config"
	"benji/internal/export"
	"benji/internal/models"
	"benji/internal/pdf"
	"benji/internal/store"
)

func newPDFCmd(cfg *config.Config) *cobra.Command {
	var (
		code    string
		number  int
		numbers []int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render sheets to a PDF file or a zip of PDFs",
		Long: `Render a single sheet to a standalone PDF with --number, or a
hand-picked set of sheets into one zip archive with --numbers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := numbers
			if number != 0 {
				targets = []int{number}
			}
			if len(targets) == 0 {
				return fmt.Errorf("pass --number or --numbers")
			}
			for _, n := range targets {
				if n < 1 || n > models.MaxSheetNumber {
					return fmt.Errorf("sheet numbers must be between 1 and %d", models.MaxSheetNumber)
				}
			}

			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()

				generationCode := code
				if generationCode == "" {
					gen, err := st.ActiveGeneration(ctx)
					if err != nil {
						return err
					}
					if gen == nil {
						return fmt.Errorf("no active generation; pass --code")
					}
					generationCode = gen.Code
				}

				renderer, err := pdf.NewSheetRenderer(cfg.WatermarkPath)
				if err != nil {
					return err
				}

				entries := make([]archive.Entry, 0, len(targets))
				for _, n := range targets {
					sheet, err := st.SheetByNumber(ctx, generationCode, n)
					if err != nil {
						return err
					}
					if sheet == nil {
						return fmt.Errorf("sheet %d of generation %s not found", n, generationCode)
					}
					payload, err := models.UnmarshalPayload([]byte(sheet.Payload))
					if err != nil {
						return err
					}
					data, err := renderer.Render(sheet.GenerationCode, sheet.Number, payload)
					if err != nil {
						return err
					}
					entries = append(entries, archive.Entry{
						Name: export.EntryName(sheet.GenerationCode, sheet.Number),
						Data: data,
					})
				}

				if len(numbers) == 0 {
					path := output
					if path == "" {
						path = entries[0].Name
					}
					if err := os.WriteFile(path, entries[0].Data, 0o644); err != nil {
						return err
					}
					return writeResult(map[string]any{"path": path, "bytes": len(entries[0].Data)}, func() error {
						return writePlain("wrote %s (%d bytes)\n", path, len(entries[0].Data))
					})
				}

				// A handful of sheets fits in memory; only batch
				// exports need the streaming writer.
				data, err := archive.Build(entries)
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = fmt.Sprintf("Gen_%s_Tablas.zip", generationCode)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return err
				}
				return writeResult(map[string]any{"path": path, "entries": len(entries), "bytes": len(data)}, func() error {
					return writePlain("wrote %s (%d entries, %d bytes)\n", path, len(entries), len(data))
				})
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "generation code (default: the active generation)")
	cmd.Flags().IntVar(&number, "number", 0, "sheet number to render")
	cmd.Flags().IntSliceVar(&numbers, "numbers", nil, "sheet numbers to render into a single zip")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: the archive entry name)")
	cmd.MarkFlagsMutuallyExclusive("number", "numbers")
	return cmd
}
