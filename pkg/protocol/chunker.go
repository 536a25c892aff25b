package protocol

import (
	log "log/slog"
	"time"
)

const DefaultChunkSize = 4096

// FrameWriter is the sending half of a device connection.
type FrameWriter interface {
	WriteText(p []byte) error
	WriteBinary(p []byte) error
}

// Chunker streams a reply buffer to the device as fixed-size binary frames.
// The device plays from a small ring buffer, so Pace throttles emission in
// place of real end-to-end flow control.
type Chunker struct {
	Size int
	Pace time.Duration
}

// Send emits buf as Size-byte frames in order (last frame may be shorter),
// then exactly one audio_end marker. An empty buf still gets the marker. Any
// write failure aborts the stream and is returned; no retries.
func (c Chunker) Send(w FrameWriter, buf []byte) error {
	size := c.Size
	if size <= 0 {
		size = DefaultChunkSize
	}

	for off := 0; off < len(buf); off += size {
		if off > 0 && c.Pace > 0 {
			time.Sleep(c.Pace)
		}
		end := off + size
		if end > len(buf) {
			end = len(buf)
		}
		if err := w.WriteBinary(buf[off:end]); err != nil {
			log.Error("Failed to send audio chunk", "off", off, "err", err)
			return err
		}
	}

	return w.WriteText(AudioEnd())
}
