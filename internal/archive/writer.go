// Package archive builds zip archives incrementally so that a large
// batch never has to sit in memory at once.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Entry is one named file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Writer appends entries one at a time to a backing stream. Each
// entry's bytes are compressed and written before the next entry is
// accepted; only the central directory is buffered until Close.
type Writer struct {
	zw     *zip.Writer
	closed bool
}

// NewWriter wraps an output stream in an incremental zip writer.
// Entries are deflate-compressed at the fastest level; batch exports
// favor throughput over ratio since PDF payloads compress poorly
// anyway.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return &Writer{zw: zw}
}

// Add writes one entry to the archive.
func (w *Writer) Add(name string, data []byte) error {
	if w.closed {
		return fmt.Errorf("archive writer is closed")
	}
	if name == "" {
		return fmt.Errorf("entry name is required")
	}

	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

// Close flushes the central directory. The backing stream is not
// closed; that remains the caller's responsibility.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.zw.Close()
}

// Build assembles a small archive fully in memory. Intended for
// ad-hoc exports of a handful of entries; batch jobs stream through
// Writer instead.
func Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, entry := range entries {
		if err := w.Add(entry.Name, entry.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
