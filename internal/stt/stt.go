package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// Transcriber turns one complete utterance upload into text. Single-shot,
// no retry; the pipeline converts failures into a spoken apology or an error
// notice.
type Transcriber struct {
	client openai.Client
}

func NewTranscriber(client openai.Client) *Transcriber {
	return &Transcriber{client: client}
}

// Transcribe uploads a WAV buffer and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", errors.New("empty audio buffer")
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(wav), "utterance.wav", "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
