package jsonl

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type item struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

// growingStream behaves like a file being appended to: reads drain what is
// currently present and then report EOF until more bytes arrive.
type growingStream struct {
	data []byte
	pos  int
}

func (s *growingStream) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}

func (s *growingStream) append(b string) {
	s.data = append(s.data, b...)
}

func TestReadItemRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	want := []item{{"a", 1}, {"b", 2}, {"c", 3}}
	for _, it := range want {
		if err := w.WriteItem(it); err != nil {
			t.Fatal(err)
		}
	}

	r := NewReader(&buf)
	for i, wantItem := range want {
		got, err := ReadItem[item](r)
		if err != nil {
			t.Fatalf("item %d: %v", i, err)
		}
		if got == nil {
			t.Fatalf("item %d: premature end of stream", i)
		}
		if *got != wantItem {
			t.Errorf("item %d: got %+v, want %+v", i, *got, wantItem)
		}
	}

	// Exactly once each: the stream is now exhausted.
	got, err := ReadItem[item](r)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected end of stream, got %+v", *got)
	}
}

func TestReadItemTailSemantics(t *testing.T) {
	s := &growingStream{}
	s.append(`{"name":"a","n":1}` + "\n" + `{"name":"b",`)

	r := NewReader(s)

	got, err := ReadItem[item](r)
	if err != nil || got == nil {
		t.Fatalf("first item: got %v, err %v", got, err)
	}
	if got.Name != "a" {
		t.Fatalf("first item: got %+v", *got)
	}

	// The second line is incomplete: no item, no error, nothing consumed.
	for i := 0; i < 3; i++ {
		got, err = ReadItem[item](r)
		if err != nil {
			t.Fatalf("partial line must not be a decode error: %v", err)
		}
		if got != nil {
			t.Fatalf("partial line must not yield an item, got %+v", *got)
		}
	}

	// Once the terminator arrives the completed item comes through intact.
	s.append(`"n":2}` + "\n")
	got, err = ReadItem[item](r)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "b" || got.N != 2 {
		t.Fatalf("completed item: got %+v", got)
	}
}

func TestReadItemGrowsBufferForLongLines(t *testing.T) {
	long := strings.Repeat("x", 3*initialBufSize)
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteItem(item{Name: long, N: 9}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteItem(item{Name: "tail", N: 10}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	got, err := ReadItem[item](r)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != long {
		t.Fatal("long line did not survive buffer growth")
	}
	got, err = ReadItem[item](r)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "tail" {
		t.Fatalf("item after long line: got %+v", got)
	}
}

func TestReadItemMalformedLineIsFatal(t *testing.T) {
	r := NewReader(strings.NewReader("not json\n"))
	if _, err := ReadItem[item](r); err == nil {
		t.Error("expected a decode error for a malformed line")
	}
}

func TestReadItemManySmallLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	const count = 500
	for i := 0; i < count; i++ {
		if err := w.WriteItem(item{Name: "x", N: i}); err != nil {
			t.Fatal(err)
		}
	}

	r := NewReader(&buf)
	for i := 0; i < count; i++ {
		got, err := ReadItem[item](r)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || got.N != i {
			t.Fatalf("line %d: got %+v", i, got)
		}
	}
}
