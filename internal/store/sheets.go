package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"benji/internal/models"
)

// InsertSheet inserts one sheet. A violation of either uniqueness
// constraint (global fingerprint, or number within the generation) is
// reported as ErrConflict so callers can regenerate and retry.
func (s *Store) InsertSheet(ctx context.Context, sheet *models.Sheet) error {
	if sheet == nil {
		return fmt.Errorf("sheet is required")
	}
	if sheet.Number < 1 || sheet.Number > models.MaxSheetNumber {
		return fmt.Errorf("sheet number %d out of range [1, %d]", sheet.Number, models.MaxSheetNumber)
	}
	if !models.ValidStatus(sheet.Status) {
		return fmt.Errorf("invalid sheet status %q", sheet.Status)
	}

	return withRetry(func() error {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO sheets (
				generation_id, generation_code, number, status, sold_at, payload, fingerprint, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			sheet.GenerationID,
			sheet.GenerationCode,
			sheet.Number,
			string(sheet.Status),
			nullTime(sheet.SoldAt),
			sheet.Payload,
			sheet.Fingerprint,
			formatTime(sheet.CreatedAt),
		)
		if err != nil {
			if isUniqueConstraint(err) {
				return fmt.Errorf("%w: sheet %d of %s", ErrConflict, sheet.Number, sheet.GenerationCode)
			}
			return err
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		sheet.ID = id
		return nil
	})
}

// MaxSheetNumber returns the highest sheet number stored for a
// generation, 0 when the generation has no sheets.
func (s *Store) MaxSheetNumber(ctx context.Context, generationID int64) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(number) FROM sheets WHERE generation_id = ?", generationID,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}

// CountSheets returns the number of sheets in a generation.
func (s *Store) CountSheets(ctx context.Context, generationID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sheets WHERE generation_id = ?", generationID,
	).Scan(&count)
	return count, err
}

// CountSheetsByStatus returns the number of sheets in a generation
// with the given status.
func (s *Store) CountSheetsByStatus(ctx context.Context, generationID int64, status models.SheetStatus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sheets WHERE generation_id = ? AND status = ?", generationID, string(status),
	).Scan(&count)
	return count, err
}

// SheetsByGeneration returns all sheets of a generation ordered by
// sheet number.
func (s *Store) SheetsByGeneration(ctx context.Context, generationID int64) ([]models.Sheet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generation_id, generation_code, number, status, sold_at, payload, fingerprint, created_at
		FROM sheets WHERE generation_id = ? ORDER BY number
	`, generationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []models.Sheet
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, rows.Err()
}

// SheetByNumber returns one sheet addressed by generation code and
// sheet number, or nil when it does not exist.
func (s *Store) SheetByNumber(ctx context.Context, generationCode string, number int) (*models.Sheet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generation_id, generation_code, number, status, sold_at, payload, fingerprint, created_at
		FROM sheets WHERE generation_code = ? AND number = ? LIMIT 1
	`, generationCode, number)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	sheet, err := scanSheet(rows)
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// MarkUnassignedSold flips every Unassigned sheet of a generation to
// Sold with the given timestamp in one batch update. It returns the
// number of sheets changed.
func (s *Store) MarkUnassignedSold(ctx context.Context, generationID int64, at time.Time) (int64, error) {
	var changed int64
	err := withRetry(func() error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE sheets SET status = ?, sold_at = ?
			WHERE generation_id = ? AND status = ?
		`, string(models.StatusSold), formatTime(at), generationID, string(models.StatusUnassigned))
		if err != nil {
			return err
		}
		changed, err = res.RowsAffected()
		return err
	})
	return changed, err
}

// DeleteAllSheets removes every sheet across all generations. Used by
// the explicit regeneration flow only.
func (s *Store) DeleteAllSheets(ctx context.Context) error {
	return withRetry(func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM sheets")
		return err
	})
}

func scanSheet(rows *sql.Rows) (models.Sheet, error) {
	var (
		sheet     models.Sheet
		status    string
		soldAt    sql.NullString
		createdAt string
	)
	err := rows.Scan(
		&sheet.ID,
		&sheet.GenerationID,
		&sheet.GenerationCode,
		&sheet.Number,
		&status,
		&soldAt,
		&sheet.Payload,
		&sheet.Fingerprint,
		&createdAt,
	)
	if err != nil {
		return models.Sheet{}, err
	}

	sheet.Status = models.SheetStatus(status)
	if soldAt.Valid {
		t, err := parseTime(soldAt.String)
		if err != nil {
			return models.Sheet{}, fmt.Errorf("parse sheet sold_at: %w", err)
		}
		sheet.SoldAt = &t
	}
	sheet.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Sheet{}, fmt.Errorf("parse sheet created_at: %w", err)
	}

	return sheet, nil
}
