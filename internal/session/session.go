package session

import (
	log "log/slog"

	"github.com/google/uuid"
)

// Session is the per-connection state: identity for logs, plus the voice and
// prompt the device may override once during the config handshake. Created on
// connect, destroyed on disconnect, never shared.
type Session struct {
	ID     uuid.UUID
	Voice  string
	Prompt string
}

func New(defaultVoice, defaultPrompt string) *Session {
	return &Session{
		ID:     uuid.New(),
		Voice:  defaultVoice,
		Prompt: defaultPrompt,
	}
}

// Configure applies the handshake fields. Empty fields keep their defaults.
func (s *Session) Configure(voice, prompt string) {
	if voice != "" {
		s.Voice = voice
	}
	if prompt != "" {
		s.Prompt = prompt
	}
	log.Info("Session configured", "session", s.ID, "voice", s.Voice)
}
