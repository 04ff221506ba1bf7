package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"benji/internal/models"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testSheet(gen *models.Generation, number int, fingerprint string) *models.Sheet {
	return &models.Sheet{
		GenerationID:   gen.ID,
		GenerationCode: gen.Code,
		Number:         number,
		Status:         models.StatusUnassigned,
		Payload:        `{"cards":[]}`,
		Fingerprint:    fingerprint,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCreateActiveGeneration(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	gen, err := st.CreateActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(gen.Code) != models.CodeLength {
		t.Fatalf("expected %d-char code, got %q", models.CodeLength, gen.Code)
	}
	if !gen.Active {
		t.Fatal("new generation should be active")
	}

	got, err := st.ActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if got == nil || got.Code != gen.Code {
		t.Fatalf("active generation mismatch: %+v", got)
	}
}

func TestCreateActiveGenerationDeactivatesPrevious(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first, err := st.CreateActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := st.CreateActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.Code == second.Code {
		t.Fatal("generation codes should differ")
	}

	active, err := st.ActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.Code != second.Code {
		t.Fatalf("expected %s active, got %s", second.Code, active.Code)
	}

	old, err := st.GenerationByCode(ctx, first.Code)
	if err != nil {
		t.Fatalf("lookup first: %v", err)
	}
	if old.Active {
		t.Fatal("previous generation should have been deactivated")
	}
}

func TestActiveGenerationEmpty(t *testing.T) {
	st := testStore(t)

	gen, err := st.ActiveGeneration(context.Background())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if gen != nil {
		t.Fatalf("expected nil, got %+v", gen)
	}
}

func TestGenerationCodesNewestFirst(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	first, err := st.CreateActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := st.CreateActiveGeneration(ctx)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	codes, err := st.GenerationCodes(ctx)
	if err != nil {
		t.Fatalf("codes: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(codes))
	}
	if codes[0] != second.Code || codes[1] != first.Code {
		t.Fatalf("unexpected order: %v", codes)
	}
}
