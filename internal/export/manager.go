// Package export runs long-lived batch export jobs: each job renders
// every sheet of a generation and streams the documents into a single
// zip archive on disk, exposing a pollable progress view.
package export

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"benji/internal/archive"
	"benji/internal/models"
	"benji/internal/pdf"
	"benji/internal/store"
)

const (
	// DefaultRetention is how long finished jobs and their archives
	// are kept before the cleanup sweep reclaims them.
	DefaultRetention = 2 * time.Hour

	progressFloor   = 2
	progressCeiling = 99
	messageInterval = 20
)

var (
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("export job not found")

	// ErrJobNotReady is returned when a result is requested before
	// the job is Done.
	ErrJobNotReady = errors.New("export job not ready")

	// ErrArchiveMissing is returned when a Done job's archive file
	// has already been removed from disk.
	ErrArchiveMissing = errors.New("export archive missing")
)

// EntryName is the archive entry naming convention. Downstream
// consumers depend on it; do not change the format.
func EntryName(generationCode string, sheetNumber int) string {
	return fmt.Sprintf("Gen_%s_Tabla_%04d.pdf", generationCode, sheetNumber)
}

// Manager is an in-process registry of export jobs. Job state lives
// only in memory; jobs do not survive a restart, though the sheets
// they exported remain durable in the store.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*Job

	store     *store.Store
	renderer  pdf.Renderer
	exportDir string
	retention time.Duration
	logger    *slog.Logger

	// wg tracks worker goroutines so Drain can log a clean shutdown;
	// job state, not goroutine liveness, is the source of truth.
	wg sync.WaitGroup
}

// NewManager constructs a Manager writing archives under exportDir. A
// non-positive retention falls back to DefaultRetention; a nil logger
// falls back to slog.Default.
func NewManager(st *store.Store, renderer pdf.Renderer, exportDir string, retention time.Duration, logger *slog.Logger) *Manager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		jobs:      make(map[string]*Job),
		store:     st,
		renderer:  renderer,
		exportDir: exportDir,
		retention: retention,
		logger:    logger,
	}
}

// Start registers a new job for the generation code and launches its
// worker without blocking. If a Pending or Running job for the same
// code already exists its id is returned unchanged; the registry lock
// covers the scan and the insert, so two simultaneous starts cannot
// both create a job.
func (m *Manager) Start(generationCode string, markUnassignedSold bool) string {
	m.mu.Lock()
	for _, existing := range m.jobs {
		if existing.GenerationCode == generationCode && !existing.terminal() {
			m.mu.Unlock()
			m.logger.Debug("reusing export job", "job", existing.ID, "generation", generationCode)
			return existing.ID
		}
	}

	job := newJob(newJobID(), generationCode)
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.logger.Info("export job started",
		"job", job.ID, "generation", generationCode, "mark_unassigned_sold", markUnassignedSold)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(job, markUnassignedSold)
	}()

	return job.ID
}

// StatusOf returns the current state of a job. The second return is
// false for unknown ids.
func (m *Manager) StatusOf(jobID string) (Snapshot, bool) {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	return job.snapshot(), true
}

// Result opens the finished archive of a Done job. The returned
// name is the archive's base file name.
func (m *Manager) Result(jobID string) (io.ReadCloser, string, error) {
	snap, ok := m.StatusOf(jobID)
	if !ok {
		return nil, "", ErrJobNotFound
	}
	if snap.Status != StatusDone || snap.ArchivePath == "" {
		return nil, "", fmt.Errorf("%w: job is %s", ErrJobNotReady, snap.Status)
	}

	f, err := os.Open(snap.ArchivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrArchiveMissing
		}
		return nil, "", err
	}
	return f, filepath.Base(snap.ArchivePath), nil
}

// Cleanup removes terminal jobs whose completion time (creation time
// if they never completed) predates the retention window, deleting
// their archive files. Pending and Running jobs are always left
// alone. Safe to call concurrently with Start and StatusOf.
func (m *Manager) Cleanup(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		snap := job.snapshot()
		if !snap.Status.Terminal() {
			continue
		}
		ref := snap.CreatedAt
		if snap.CompletedAt != nil {
			ref = *snap.CompletedAt
		}
		if !ref.Before(cutoff) {
			continue
		}

		if snap.ArchivePath != "" {
			if err := os.Remove(snap.ArchivePath); err != nil && !os.IsNotExist(err) {
				m.logger.Warn("remove stale archive", "job", id, "path", snap.ArchivePath, "error", err)
			}
		}
		delete(m.jobs, id)
		removed++
	}

	if removed > 0 {
		m.logger.Info("cleaned up export jobs", "removed", removed)
	}
	return removed
}

// Drain waits for all in-flight workers to finish. Intended for
// process shutdown.
func (m *Manager) Drain() {
	m.wg.Wait()
}

func (m *Manager) run(job *Job, markUnassignedSold bool) {
	job.setRunning()

	if err := m.export(job, markUnassignedSold); err != nil {
		job.fail(err)
		m.logger.Error("export job failed",
			"job", job.ID, "generation", job.GenerationCode, "error", err)
		return
	}

	snap := job.snapshot()
	m.logger.Info("export job done",
		"job", job.ID, "generation", job.GenerationCode, "archive", snap.ArchivePath)

	m.Cleanup(m.retention)
}

func (m *Manager) export(job *Job, markUnassignedSold bool) error {
	ctx := context.Background()

	gen, err := m.store.GenerationByCode(ctx, job.GenerationCode)
	if err != nil {
		return fmt.Errorf("load generation: %w", err)
	}
	if gen == nil {
		return fmt.Errorf("generation %s not found", job.GenerationCode)
	}

	sheets, err := m.store.SheetsByGeneration(ctx, gen.ID)
	if err != nil {
		return fmt.Errorf("load sheets: %w", err)
	}
	if len(sheets) == 0 {
		return fmt.Errorf("generation %s has no sheets", gen.Code)
	}

	// Flip the remaining stock before rendering so the archive
	// reflects the final sale state.
	if markUnassignedSold {
		changed, err := m.store.MarkUnassignedSold(ctx, gen.ID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("mark unassigned sheets sold: %w", err)
		}
		if changed > 0 {
			m.logger.Info("marked remaining sheets sold", "generation", gen.Code, "count", changed)
		}
	}

	if err := os.MkdirAll(m.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(m.exportDir, fmt.Sprintf("benji_%s_%s_%s.zip",
		gen.Code, time.Now().Format("20060102_150405"), job.ID))

	job.setProgress(progressFloor)
	job.setMessage("rendering documents")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	job.setArchivePath(path)

	err = m.writeArchive(job, f, gen.Code, sheets)
	closeErr := f.Close()
	if err != nil {
		// The partial file stays on disk for diagnosis; the
		// retention sweep reclaims it along with the job record.
		return err
	}
	if closeErr != nil {
		return fmt.Errorf("close archive file: %w", closeErr)
	}

	job.complete(path)
	return nil
}

func (m *Manager) writeArchive(job *Job, w io.Writer, generationCode string, sheets []models.Sheet) error {
	aw := archive.NewWriter(w)
	// Closing on every exit path keeps an aborted archive file
	// well-formed up to the last complete entry.
	defer aw.Close()

	total := len(sheets)
	for i, sheet := range sheets {
		payload, err := models.UnmarshalPayload([]byte(sheet.Payload))
		if err != nil {
			return fmt.Errorf("sheet %d payload: %w", sheet.Number, err)
		}
		data, err := m.renderer.Render(generationCode, sheet.Number, payload)
		if err != nil {
			return fmt.Errorf("render sheet %d: %w", sheet.Number, err)
		}
		if err := aw.Add(EntryName(generationCode, sheet.Number), data); err != nil {
			return err
		}

		job.setProgress(progressForEntry(i+1, total))
		if (i+1)%messageInterval == 0 {
			job.setMessage(fmt.Sprintf("rendering document %d/%d", i+1, total))
		}
	}

	return aw.Close()
}

// progressForEntry maps completed entries to the [2, 99] band: the
// first unit is reserved for setup, the last for completion.
func progressForEntry(done, total int) int {
	pct := progressFloor + done*(progressCeiling-progressFloor)/total
	if pct < progressFloor {
		pct = progressFloor
	}
	if pct > progressCeiling {
		pct = progressCeiling
	}
	return pct
}

func newJobID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
