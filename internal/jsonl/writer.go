package jsonl

import (
	"encoding/json"
	"fmt"
	"io"
)

// Writer appends one JSON item per line. Each item and its terminating
// newline go to the underlying writer in a single Write call, so a
// concurrent tailing reader never observes a torn line as long as the
// destination honors write atomicity (appends to a local file do).
type Writer struct {
	dst io.Writer
}

// NewWriter wraps dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

// WriteItem encodes v followed by '\n'.
func (w *Writer) WriteItem(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("jsonl: encode: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.dst.Write(b); err != nil {
		return fmt.Errorf("jsonl: write: %w", err)
	}
	return nil
}
