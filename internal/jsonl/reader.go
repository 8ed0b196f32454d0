// Package jsonl reads and writes newline-delimited JSON streams. The reader
// is incremental: it can replay a finished file in bulk or repeatedly poll a
// file that is still growing (tail mode), without ever consuming the bytes
// of a line that has not yet been terminated.
package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const initialBufSize = 4096

// Reader decodes one JSON item per newline-terminated line from an
// underlying byte stream. Partial trailing lines survive across calls in an
// internal buffer, so a caller in tail mode can simply retry ReadItem after
// the producer appends more bytes.
type Reader struct {
	src io.Reader
	buf []byte
	off int // start of the unconsumed region
	end int // end of the unconsumed region
}

// NewReader wraps src. The buffer grows geometrically as long lines demand.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: src, buf: make([]byte, initialBufSize)}
}

// ReadItem decodes the next line into a T. It returns (nil, nil) when the
// stream holds no complete line right now; the caller decides whether that
// means end-of-file or "wait and retry". A line that fails to decode is a
// fatal error, never skipped.
func ReadItem[T any](r *Reader) (*T, error) {
	if r.off != 0 {
		if i := bytes.IndexByte(r.buf[r.off:r.end], '\n'); i >= 0 {
			item, err := decodeLine[T](r.buf[r.off : r.off+i])
			if err != nil {
				return nil, err
			}
			r.off += i + 1
			return item, nil
		}
		// Compact so the partial line sits at the buffer start.
		copy(r.buf, r.buf[r.off:r.end])
		r.end -= r.off
		r.off = 0
	}

	for {
		if r.end == len(r.buf) {
			grown := make([]byte, len(r.buf)*2)
			copy(grown, r.buf)
			r.buf = grown
		}

		n, err := r.src.Read(r.buf[r.end:])
		oldEnd := r.end
		r.end += n

		if i := bytes.IndexByte(r.buf[oldEnd:r.end], '\n'); i >= 0 {
			item, derr := decodeLine[T](r.buf[r.off : oldEnd+i])
			if derr != nil {
				return nil, derr
			}
			r.off = oldEnd + i + 1
			return item, nil
		}

		if n == 0 {
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("jsonl: read: %w", err)
			}
			// No complete line yet. Not an error: bulk readers treat this
			// as end of stream, tail readers retry after more bytes arrive.
			return nil, nil
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("jsonl: read: %w", err)
		}
	}
}

func decodeLine[T any](line []byte) (*T, error) {
	item := new(T)
	if err := json.Unmarshal(line, item); err != nil {
		return nil, fmt.Errorf("jsonl: decode line %q: %w", line, err)
	}
	return item, nil
}

// Buffered reports how many unconsumed bytes the reader is holding,
// including any partial line awaiting its terminator.
func (r *Reader) Buffered() int { return r.end - r.off }
