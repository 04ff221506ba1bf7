package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"benji/internal/models"
)

// CreateActiveGeneration allocates a fresh unique code, clears the
// active flag on every other generation and inserts the new one as
// active, all in one transaction.
func (s *Store) CreateActiveGeneration(ctx context.Context) (*models.Generation, error) {
	code, err := AllocateCode(func(candidate string) (bool, error) {
		return s.generationCodeExists(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}

	gen := &models.Generation{
		Code:      code,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}

	err = withRetry(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "UPDATE generations SET active = 0 WHERE active = 1"); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO generations (code, created_at, active) VALUES (?, ?, 1)
		`, gen.Code, formatTime(gen.CreatedAt))
		if err != nil {
			if isUniqueConstraint(err) {
				return fmt.Errorf("%w: generation code %s", ErrConflict, gen.Code)
			}
			return err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		gen.ID = id

		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// ActiveGeneration returns the current active generation, or nil when
// none exists.
func (s *Store) ActiveGeneration(ctx context.Context) (*models.Generation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, created_at, active FROM generations
		WHERE active = 1 ORDER BY id DESC LIMIT 1
	`)
	return scanGeneration(row)
}

// GenerationByCode returns the generation with the given code, or nil
// when it does not exist.
func (s *Store) GenerationByCode(ctx context.Context, code string) (*models.Generation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, code, created_at, active FROM generations WHERE code = ?
	`, code)
	return scanGeneration(row)
}

// GenerationCodes returns all generation codes, newest first.
func (s *Store) GenerationCodes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT code FROM generations ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// DeactivateAll clears the active flag on every generation.
func (s *Store) DeactivateAll(ctx context.Context) error {
	return withRetry(func() error {
		_, err := s.db.ExecContext(ctx, "UPDATE generations SET active = 0 WHERE active = 1")
		return err
	})
}

func (s *Store) generationCodeExists(ctx context.Context, code string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM generations WHERE code = ? LIMIT 1", code).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanGeneration(row *sql.Row) (*models.Generation, error) {
	var (
		gen       models.Generation
		createdAt string
		active    int
	)
	err := row.Scan(&gen.ID, &gen.Code, &createdAt, &active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	gen.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse generation created_at: %w", err)
	}
	gen.Active = active != 0

	return &gen, nil
}
