package audio

import (
	"bytes"
	log "log/slog"
)

// Sink accumulates the binary frames of one utterance upload, bounded by the
// START and END control frames. Owned by a single connection; not safe for
// concurrent use.
type Sink struct {
	buf  *bytes.Buffer
	open bool
}

// Begin opens a fresh buffer. A START arriving without a matching prior END
// discards the partial upload and starts over.
func (s *Sink) Begin() {
	if s.open {
		log.Warn("Upload restarted, dropping partial buffer", "bytes", s.buf.Len())
	}
	s.buf = &bytes.Buffer{}
	s.open = true
}

// Append adds raw audio bytes. Frames arriving before START are dropped with
// a warning; the device is out of step, not broken.
func (s *Sink) Append(p []byte) {
	if !s.open {
		log.Warn("Audio frame outside upload, ignoring", "bytes", len(p))
		return
	}
	s.buf.Write(p)
}

// End closes the upload and yields the accumulated bytes. The second return
// is false when no upload was open.
func (s *Sink) End() ([]byte, bool) {
	if !s.open {
		log.Warn("END without START, nothing to yield")
		return nil, false
	}
	s.open = false
	out := s.buf.Bytes()
	s.buf = nil
	return out, true
}

// Discard drops any partial buffer, for connection teardown.
func (s *Sink) Discard() {
	s.buf = nil
	s.open = false
}
