package audioconv

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Devices stream raw little-endian PCM16; the transcription API wants a WAV
// upload. This package only wraps the container, no resampling.

const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
)

// IsWAV sniffs the RIFF magic so already-containered uploads pass through.
func IsWAV(b []byte) bool {
	return len(b) >= 4 && string(b[:4]) == "RIFF"
}

// PCM16WAV wraps raw PCM16LE samples in a WAV container.
func PCM16WAV(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm)%2 != 0 {
		return nil, errors.New("odd pcm16 byte count")
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}

	var ws seekBuffer
	enc := wav.NewEncoder(&ws, sampleRate, 16, channels, 1)
	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	})
	if err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// seekBuffer is an in-memory io.WriteSeeker; the wav encoder rewinds to patch
// the header lengths on Close.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if need := b.pos + len(p); need > len(b.buf) {
		grown := make([]byte, need)
		copy(grown, b.buf)
		b.buf = grown
	}
	copy(b.buf[b.pos:], p)
	b.pos += len(p)
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.buf))
	default:
		return 0, errors.New("invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("negative seek")
	}
	b.pos = int(pos)
	return pos, nil
}

var _ io.WriteSeeker = (*seekBuffer)(nil)
