package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"benji/internal/config"
	"benji/internal/export"
	"benji/internal/pdf"
	"benji/internal/store"
)

const exportPollInterval = 250 * time.Millisecond

func newExportCmd(cfg *config.Config) *cobra.Command {
	var (
		code     string
		markSold bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render all sheets of a generation into one zip archive",
		Long: "Start a batch export job for a generation (the active one by " +
			"default) and poll its progress until it finishes. Optionally mark " +
			"all remaining unassigned sheets as sold before exporting.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, func(st *store.Store) error {
				ctx := cmd.Context()

				generationCode := code
				if generationCode == "" {
					gen, err := st.ActiveGeneration(ctx)
					if err != nil {
						return err
					}
					if gen == nil {
						return fmt.Errorf("no active generation; pass --code to export another one")
					}
					generationCode = gen.Code
				}

				renderer, err := pdf.NewSheetRenderer(cfg.WatermarkPath)
				if err != nil {
					return err
				}

				manager := export.NewManager(st, renderer, cfg.ExportDir, cfg.JobRetention(), slog.Default())
				jobID := manager.Start(generationCode, markSold)

				snap, err := pollJob(manager, jobID)
				if err != nil {
					return err
				}

				payload := map[string]any{
					"job_id":          jobID,
					"generation_code": generationCode,
					"status":          snap.Status,
					"archive_path":    snap.ArchivePath,
				}
				return writeResult(payload, func() error {
					return writePlain("archive ready: %s\n", snap.ArchivePath)
				})
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "generation code (default: the active generation)")
	cmd.Flags().BoolVar(&markSold, "mark-sold", false, "mark remaining unassigned sheets as sold before export")
	return cmd
}

// pollJob watches a job until it reaches a terminal status, logging
// progress along the way.
func pollJob(manager *export.Manager, jobID string) (export.Snapshot, error) {
	lastProgress := -1
	for {
		snap, ok := manager.StatusOf(jobID)
		if !ok {
			return export.Snapshot{}, fmt.Errorf("export job %s disappeared", jobID)
		}

		if snap.Progress != lastProgress {
			lastProgress = snap.Progress
			slog.Info("export progress",
				"job", jobID, "status", snap.Status, "progress", snap.Progress, "message", snap.Message)
		}

		switch snap.Status {
		case export.StatusDone:
			return snap, nil
		case export.StatusError:
			return snap, fmt.Errorf("export failed: %s", snap.Message)
		}

		time.Sleep(exportPollInterval)
	}
}

func newCleanupCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove export archives older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := export.SweepArchiveDir(cfg.ExportDir, cfg.JobRetention(), slog.Default())
			if err != nil {
				return err
			}
			return writeResult(map[string]any{"removed": removed}, func() error {
				return writePlain("removed %d stale archives\n", removed)
			})
		},
	}
}
