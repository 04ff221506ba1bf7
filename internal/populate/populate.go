// Package populate fills a generation with globally unique sheets.
package populate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"benji/internal/cards"
	"benji/internal/models"
	"benji/internal/store"
)

// conflictRetryCap bounds regeneration attempts for a single sheet
// number. Fingerprint collisions are near-impossible with a healthy
// generator, so hitting the cap indicates a broken content source
// rather than bad luck.
const conflictRetryCap = 1000

// Populator drives the content generator against the store.
type Populator struct {
	store     *store.Store
	generator cards.Generator
	logger    *slog.Logger
}

// New constructs a Populator. A nil logger falls back to slog.Default.
func New(st *store.Store, gen cards.Generator, logger *slog.Logger) *Populator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Populator{store: st, generator: gen, logger: logger}
}

// Populate commits up to target new sheets for the generation,
// resuming one past the highest sheet number already stored. A
// uniqueness conflict on insert discards the generated content and
// retries the same number with fresh content; numbers are never
// skipped. Population stops early without error when the next number
// would exceed the per-generation ceiling; callers detect the
// shortfall by comparing the returned count to target.
func (p *Populator) Populate(ctx context.Context, gen *models.Generation, target int) (int, error) {
	if gen == nil {
		return 0, fmt.Errorf("generation is required")
	}
	if target < 0 {
		return 0, fmt.Errorf("target must be non-negative")
	}

	start, err := p.store.MaxSheetNumber(ctx, gen.ID)
	if err != nil {
		return 0, fmt.Errorf("resolve starting sheet number: %w", err)
	}

	created := 0
	number := start + 1
	for created < target && number <= models.MaxSheetNumber {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		if err := p.insertWithRetry(ctx, gen, number); err != nil {
			return created, err
		}
		created++
		number++
	}

	p.logger.Debug("population finished",
		"generation", gen.Code, "created", created, "target", target, "next_number", number)

	return created, nil
}

func (p *Populator) insertWithRetry(ctx context.Context, gen *models.Generation, number int) error {
	for attempt := 0; attempt < conflictRetryCap; attempt++ {
		payload, fingerprint, err := p.generator.Generate()
		if err != nil {
			return fmt.Errorf("generate sheet content: %w", err)
		}
		data, err := models.MarshalPayload(payload)
		if err != nil {
			return err
		}

		sheet := &models.Sheet{
			GenerationID:   gen.ID,
			GenerationCode: gen.Code,
			Number:         number,
			Status:         models.StatusUnassigned,
			Payload:        string(data),
			Fingerprint:    fingerprint,
			CreatedAt:      time.Now().UTC(),
		}

		err = p.store.InsertSheet(ctx, sheet)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return err
		}

		// Either a fingerprint collision or a concurrent writer won
		// this number. If another populator inserted this number, the
		// retry below keeps colliding and the caller resumes from the
		// new maximum on its next run; content collisions resolve on
		// the first regeneration.
		if existing, lookupErr := p.store.SheetByNumber(ctx, gen.Code, number); lookupErr == nil && existing != nil {
			return fmt.Errorf("%w: number %d taken by a concurrent writer", store.ErrConflict, number)
		}

		p.logger.Debug("sheet conflict, regenerating",
			"generation", gen.Code, "number", number, "attempt", attempt+1)
	}

	return fmt.Errorf("unable to produce unique content for sheet %d after %d attempts", number, conflictRetryCap)
}
