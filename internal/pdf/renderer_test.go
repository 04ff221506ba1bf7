package pdf

import (
	"path/filepath"
	"testing"
)

func TestNewSheetRenderer(t *testing.T) {
	r, err := NewSheetRenderer("")
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.regular == nil || r.bold == nil {
		t.Fatal("expected fonts to be loaded")
	}
}

func TestNewSheetRendererToleratesMissingWatermark(t *testing.T) {
	// A missing watermark file must not break construction; the
	// render path simply skips it.
	path := filepath.Join(t.TempDir(), "absent.jpg")
	if _, err := NewSheetRenderer(path); err != nil {
		t.Fatalf("new renderer with absent watermark: %v", err)
	}
}
