package export

import (
	"sync"
	"time"
)

// Job tracks one batch export. Exactly one worker goroutine writes a
// job's mutable fields; pollers only read. The per-job RWMutex exists
// to satisfy the Go memory model; it is never contended for long and
// status reads stay effectively instant.
type Job struct {
	ID             string
	GenerationCode string
	CreatedAt      time.Time

	mu          sync.RWMutex
	status      Status
	progress    int
	message     string
	archivePath string
	completedAt time.Time
}

// Snapshot is a consistent read of a job's current state.
type Snapshot struct {
	ID             string     `json:"id"`
	GenerationCode string     `json:"generation_code"`
	Status         Status     `json:"status"`
	Progress       int        `json:"progress"`
	Message        string     `json:"message"`
	ArchivePath    string     `json:"archive_path,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func newJob(id, generationCode string) *Job {
	return &Job{
		ID:             id,
		GenerationCode: generationCode,
		CreatedAt:      time.Now().UTC(),
		status:         StatusPending,
		message:        "queued",
	}
}

func (j *Job) snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	snap := Snapshot{
		ID:             j.ID,
		GenerationCode: j.GenerationCode,
		Status:         j.status,
		Progress:       j.progress,
		Message:        j.message,
		ArchivePath:    j.archivePath,
		CreatedAt:      j.CreatedAt,
	}
	if !j.completedAt.IsZero() {
		t := j.completedAt
		snap.CompletedAt = &t
	}
	return snap
}

func (j *Job) terminal() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status.Terminal()
}

func (j *Job) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusRunning
	j.progress = 1
	j.message = "preparing"
}

// setProgress raises the progress value; it never lowers it, so
// successive polls always observe a non-decreasing number.
func (j *Job) setProgress(pct int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if pct > j.progress {
		j.progress = pct
	}
}

func (j *Job) setMessage(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.message = msg
}

// setArchivePath records the working archive file as soon as it is
// created, so a job that later fails still points the retention sweep
// at its partial file.
func (j *Job) setArchivePath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.archivePath = path
}

func (j *Job) complete(archivePath string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusDone
	j.progress = 100
	j.message = "archive ready"
	j.archivePath = archivePath
	j.completedAt = time.Now().UTC()
}

// fail marks the job terminal with the failure message. Progress is
// clamped so an errored job never reports 100%.
func (j *Job) fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusError
	j.message = err.Error()
	if j.progress > progressCeiling {
		j.progress = progressCeiling
	}
	j.completedAt = time.Now().UTC()
}
