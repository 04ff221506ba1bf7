package format

import (
	"bytes"
	"strings"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := JSONFormatter{}.Write(&buf, map[string]any{"code": "AB23CD45EF"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), `"code":"AB23CD45EF"`) {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := YAMLFormatter{}.Write(&buf, map[string]any{"code": "AB23CD45EF"})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "code: AB23CD45EF") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
