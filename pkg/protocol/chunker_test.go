package protocol

import (
	"bytes"
	"errors"
	"testing"
)

type recordWriter struct {
	binary [][]byte
	text   [][]byte
	failAt int // fail the Nth binary write (1-based); 0 = never
}

func (r *recordWriter) WriteBinary(p []byte) error {
	if r.failAt > 0 && len(r.binary)+1 == r.failAt {
		return errors.New("peer gone")
	}
	r.binary = append(r.binary, append([]byte(nil), p...))
	return nil
}

func (r *recordWriter) WriteText(p []byte) error {
	r.text = append(r.text, append([]byte(nil), p...))
	return nil
}

func TestChunkerSizes(t *testing.T) {
	buf := make([]byte, 10000)
	for i := range buf {
		buf[i] = byte(i)
	}

	w := &recordWriter{}
	if err := (Chunker{Size: 4096}).Send(w, buf); err != nil {
		t.Fatal(err)
	}

	want := []int{4096, 4096, 1808}
	if len(w.binary) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(w.binary), len(want))
	}
	for i, n := range want {
		if len(w.binary[i]) != n {
			t.Errorf("chunk %d has %d bytes, want %d", i, len(w.binary[i]), n)
		}
	}

	var joined []byte
	for _, c := range w.binary {
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, buf) {
		t.Error("chunks do not reassemble to the original buffer")
	}

	if len(w.text) != 1 || !bytes.Equal(w.text[0], AudioEnd()) {
		t.Errorf("want exactly one audio_end marker, got %d text frames", len(w.text))
	}
}

func TestChunkerEmptyBuffer(t *testing.T) {
	w := &recordWriter{}
	if err := (Chunker{Size: 4096}).Send(w, nil); err != nil {
		t.Fatal(err)
	}
	if len(w.binary) != 0 {
		t.Errorf("got %d data chunks for empty input, want 0", len(w.binary))
	}
	if len(w.text) != 1 {
		t.Errorf("got %d markers, want exactly 1", len(w.text))
	}
}

func TestChunkerAbortsOnWriteFailure(t *testing.T) {
	w := &recordWriter{failAt: 2}
	err := (Chunker{Size: 4}).Send(w, make([]byte, 20))
	if err == nil {
		t.Fatal("want error from failed chunk write")
	}
	if len(w.binary) != 1 {
		t.Errorf("sent %d chunks after failure, want 1", len(w.binary))
	}
	if len(w.text) != 0 {
		t.Error("marker must not be sent after an aborted stream")
	}
}

func TestChunkerDefaultSize(t *testing.T) {
	w := &recordWriter{}
	if err := (Chunker{}).Send(w, make([]byte, DefaultChunkSize+1)); err != nil {
		t.Fatal(err)
	}
	if len(w.binary) != 2 {
		t.Fatalf("got %d chunks, want 2", len(w.binary))
	}
	if len(w.binary[0]) != DefaultChunkSize || len(w.binary[1]) != 1 {
		t.Errorf("chunk sizes = %d,%d", len(w.binary[0]), len(w.binary[1]))
	}
}
