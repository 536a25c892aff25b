package convo

import (
	"encoding/json"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultMaxHistory = 5
)

// Turn is one utterance in the conversation log. Immutable once appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is the capped, file-backed conversation log. One handle is shared by
// every connection; all mutation goes through the mutex so the
// read-trim-persist sequence never interleaves.
type Store struct {
	mu         sync.Mutex
	path       string
	maxHistory int
	turns      []Turn
}

// Open loads the persisted log. A missing or corrupt file starts an empty log
// with a warning; startup never fails on bad history.
func Open(path string, maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	s := &Store{path: path, maxHistory: maxHistory}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Failed to read history file, starting empty", "path", path, "err", err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.turns); err != nil {
		log.Warn("Corrupt history file, starting empty", "path", path, "err", err)
		s.turns = nil
		return s
	}
	s.trim()
	return s
}

// AppendExchange records one user/assistant pair, evicts the oldest turns
// beyond the cap, and persists synchronously.
func (s *Store) AppendExchange(user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns,
		Turn{Role: RoleUser, Content: user},
		Turn{Role: RoleAssistant, Content: assistant},
	)
	s.trim()
	s.persist()
}

// Snapshot returns the ordered turns for a chat-completion request.
func (s *Store) Snapshot() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

// Len reports the current turn count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// Reset clears the log and persists the empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.persist()
}

func (s *Store) trim() {
	limit := 2 * s.maxHistory
	if len(s.turns) > limit {
		s.turns = append([]Turn(nil), s.turns[len(s.turns)-limit:]...)
	}
}

// persist rewrites the whole log atomically: temp file in the same directory,
// then rename over the old one. A write failure leaves the in-memory log
// intact and functioning.
func (s *Store) persist() {
	if s.path == "" {
		return
	}
	raw, err := json.Marshal(s.turns)
	if err != nil {
		log.Error("Failed to encode history", "err", err)
		return
	}
	tmp := fmt.Sprintf("%s.tmp", s.path)
	if dir := filepath.Dir(s.path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		log.Error("Failed to write history", "path", tmp, "err", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Error("Failed to replace history", "path", s.path, "err", err)
	}
}
