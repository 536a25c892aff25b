package convo

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.json")
}

func TestStoreCapEvictsOldestFirst(t *testing.T) {
	s := Open(tempStorePath(t), 5)

	for i := 0; i < 8; i++ {
		s.AppendExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		if got := s.Len(); got > 10 {
			t.Fatalf("log length %d exceeds cap after append %d", got, i)
		}
	}

	turns := s.Snapshot()
	if len(turns) != 10 {
		t.Fatalf("log length = %d, want 10", len(turns))
	}
	// oldest exchanges (q0..q2) must be gone, newest (q7) present
	if turns[0].Content != "q3" || turns[0].Role != RoleUser {
		t.Errorf("oldest surviving turn = %+v, want user q3", turns[0])
	}
	if turns[9].Content != "a7" || turns[9].Role != RoleAssistant {
		t.Errorf("newest turn = %+v, want assistant a7", turns[9])
	}
}

func TestStorePersistRoundTrip(t *testing.T) {
	path := tempStorePath(t)

	s := Open(path, 5)
	s.AppendExchange("anong oras na", "Alas tres na po.")
	s.AppendExchange("weather in cebu", "It is sunny in Cebu at 31 degrees.")

	reloaded := Open(path, 5)
	if !reflect.DeepEqual(reloaded.Snapshot(), s.Snapshot()) {
		t.Errorf("reloaded log differs:\n got %+v\nwant %+v", reloaded.Snapshot(), s.Snapshot())
	}
}

func TestStoreCorruptFileStartsEmpty(t *testing.T) {
	path := tempStorePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := Open(path, 5) // must not panic
	if s.Len() != 0 {
		t.Errorf("corrupt file loaded %d turns, want 0", s.Len())
	}
}

func TestStoreMissingFileStartsEmpty(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope", "history.json"), 5)
	if s.Len() != 0 {
		t.Errorf("missing file loaded %d turns, want 0", s.Len())
	}
}

func TestStoreReset(t *testing.T) {
	path := tempStorePath(t)
	s := Open(path, 5)
	s.AppendExchange("hi", "hello")
	s.Reset()

	if s.Len() != 0 {
		t.Error("Reset left turns in memory")
	}
	if got := Open(path, 5).Len(); got != 0 {
		t.Errorf("Reset persisted %d turns, want 0", got)
	}
}

func TestStoreLoadTrimsOversizedFile(t *testing.T) {
	path := tempStorePath(t)
	big := Open(path, 50)
	for i := 0; i < 20; i++ {
		big.AppendExchange(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	s := Open(path, 5)
	if s.Len() != 10 {
		t.Errorf("reload with smaller cap kept %d turns, want 10", s.Len())
	}
}
