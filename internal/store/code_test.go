package store

import (
	"strings"
	"testing"

	"benji/internal/models"
)

func TestAllocateCodeFormat(t *testing.T) {
	code, err := AllocateCode(nil)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(code) != models.CodeLength {
		t.Fatalf("expected %d chars, got %d", models.CodeLength, len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("code %q contains %q outside the alphabet", code, r)
		}
	}
}

func TestAllocateCodeAlphabetExcludesConfusables(t *testing.T) {
	for _, r := range "01IO" {
		if strings.ContainsRune(codeAlphabet, r) {
			t.Fatalf("alphabet must not contain %q", r)
		}
	}
	// 256 must be a multiple of the alphabet length for byte-mod
	// sampling to stay uniform.
	if 256%len(codeAlphabet) != 0 {
		t.Fatalf("alphabet length %d does not divide 256", len(codeAlphabet))
	}
}

func TestAllocateCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	code, err := AllocateCode(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code")
	}
	if calls != 3 {
		t.Fatalf("expected 3 existence checks, got %d", calls)
	}
}

func TestAllocateCodeExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := AllocateCode(func(string) (bool, error) {
		calls++
		return true, nil
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls != codeMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", codeMaxAttempts, calls)
	}
}
