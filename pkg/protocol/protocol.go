package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Plain-text control frames exchanged with the device.
const (
	FrameStart      = "START"
	FrameEnd        = "END"
	FrameConfigOK   = "CONFIG_OK"
	FrameProcessing = "PROCESSING"
)

type ControlKind uint

const (
	CtlStart ControlKind = iota
	CtlEnd
	CtlSetConfig
)

// Control is one parsed device→server text frame.
type Control struct {
	Kind   ControlKind
	Voice  string
	Prompt string
}

type setConfigFrame struct {
	Cmd    string `json:"cmd"`
	Voice  string `json:"voice"`
	Prompt string `json:"prompt"`
}

// ParseControl classifies an inbound text frame. Plain START/END frames and
// the SET_CONFIG JSON frame are valid; anything else is an error the caller
// logs and ignores.
func ParseControl(raw []byte) (Control, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return Control{}, errors.New("empty frame")
	}

	switch s {
	case FrameStart:
		return Control{Kind: CtlStart}, nil
	case FrameEnd:
		return Control{Kind: CtlEnd}, nil
	}

	if s[0] != '{' {
		return Control{}, fmt.Errorf("unknown control frame: %q", s)
	}

	var frame setConfigFrame
	if err := json.Unmarshal([]byte(s), &frame); err != nil {
		return Control{}, fmt.Errorf("malformed json frame: %w", err)
	}
	if frame.Cmd != "SET_CONFIG" {
		return Control{}, fmt.Errorf("unknown cmd: %q", frame.Cmd)
	}

	return Control{
		Kind:   CtlSetConfig,
		Voice:  frame.Voice,
		Prompt: frame.Prompt,
	}, nil
}

type envelope struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// Transcript frames the recognized utterance for the device.
func Transcript(text string) []byte {
	b, _ := json.Marshal(envelope{Type: "transcript", Text: text})
	return b
}

// AudioEnd is the end-of-reply-audio marker; the device may finish playback
// once it arrives.
func AudioEnd() []byte {
	b, _ := json.Marshal(envelope{Type: "audio_end"})
	return b
}

// ErrorNotice tells the device that processing failed; the connection stays
// open afterwards.
func ErrorNotice(msg string) []byte {
	b, _ := json.Marshal(envelope{Type: "error", Msg: msg})
	return b
}
