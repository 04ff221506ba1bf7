package cards

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"benji/internal/models"
)

func TestGenerateCardStructure(t *testing.T) {
	gen := NewCryptoGenerator()
	payload, fingerprint, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(payload.Cards) != models.CardsPerSheet {
		t.Fatalf("expected %d cards, got %d", models.CardsPerSheet, len(payload.Cards))
	}
	if len(fingerprint) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(fingerprint))
	}
	if fingerprint != strings.ToLower(fingerprint) {
		t.Fatalf("fingerprint not lowercase: %s", fingerprint)
	}

	for ci, card := range payload.Cards {
		for col := 0; col < models.GridSize; col++ {
			min, max := columnRanges[col][0], columnRanges[col][1]
			seen := map[int]bool{}
			prev := 0
			for row := 0; row < models.GridSize; row++ {
				v := card.Grid[row][col]
				if v < min || v > max {
					t.Fatalf("card %d col %d row %d: value %d outside [%d, %d]", ci, col, row, v, min, max)
				}
				if seen[v] {
					t.Fatalf("card %d col %d: duplicate value %d", ci, col, v)
				}
				seen[v] = true
				if v <= prev {
					t.Fatalf("card %d col %d: values not ascending (%d after %d)", ci, col, v, prev)
				}
				prev = v
			}
		}
	}
}

func TestFingerprintMatchesSerializedPayload(t *testing.T) {
	gen := NewCryptoGenerator()
	payload, fingerprint, err := gen.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := models.MarshalPayload(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sum := sha256.Sum256(data)
	if want := hex.EncodeToString(sum[:]); fingerprint != want {
		t.Fatalf("fingerprint mismatch: got %s want %s", fingerprint, want)
	}
}

func TestGenerateProducesDistinctFingerprints(t *testing.T) {
	gen := NewCryptoGenerator()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		_, fingerprint, err := gen.Generate()
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if seen[fingerprint] {
			t.Fatalf("duplicate fingerprint after %d draws: %s", i, fingerprint)
		}
		seen[fingerprint] = true
	}
}

func TestPickUniqueSortedRejectsTooSmallRange(t *testing.T) {
	if _, err := pickUniqueSorted(1, 3, 5); err == nil {
		t.Fatal("expected error for range smaller than count")
	}
}
