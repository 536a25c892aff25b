package server

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"tala/internal/audio"
	"tala/internal/pipeline"
	"tala/internal/session"
	"tala/pkg/protocol"
)

type connState uint

const (
	stateAwaitingConfig connState = iota
	stateIdle
	stateReceiving
	stateProcessing
	stateClosed
)

// conn binds one device connection to its session, upload sink, and the
// reply pipeline. A single reader goroutine feeds the frame channel; the
// Processing phase runs on its own goroutine and writes through the
// mutex-guarded WebSocket.
type conn struct {
	ws   *protocol.WebSocket
	sess *session.Session
	pipe *pipeline.Pipeline

	configWait time.Duration
	frames     chan protocol.Income

	mu    sync.Mutex
	state connState
	sink  audio.Sink
}

func newConn(ws *protocol.WebSocket, sess *session.Session, pipe *pipeline.Pipeline, configWait time.Duration) *conn {
	return &conn{
		ws:         ws,
		sess:       sess,
		pipe:       pipe,
		configWait: configWait,
		frames:     make(chan protocol.Income),
	}
}

func (c *conn) run() {
	defer c.close()
	go c.readLoop()

	if !c.awaitConfig() {
		return
	}

	if err := c.pipe.Greet(context.Background(), c.ws, c.sess); err != nil {
		log.Warn("Failed to greet", "session", c.sess.ID, "err", err)
		return
	}
	c.setState(stateIdle)

	for in := range c.frames {
		switch in.Kind {
		case protocol.CONN_CLOSE:
			log.Info("Device disconnected", "session", c.sess.ID)
			return

		case protocol.READ_FAILURE:
			log.Error("Failed to read", "session", c.sess.ID, "err", in.Err)
			return

		case protocol.BINARY_OK:
			c.onBinary(in.Msg)

		case protocol.TEXT_OK:
			c.onControl(in.Msg)
		}
	}
}

// readLoop is the sole reader. It stops on the first permanent read error,
// which run observes as a close/failure frame.
func (c *conn) readLoop() {
	for {
		in := c.ws.Read()
		c.frames <- in
		if in.Kind == protocol.CONN_CLOSE || in.Kind == protocol.READ_FAILURE {
			close(c.frames)
			return
		}
	}
}

// awaitConfig races the first SET_CONFIG against the handshake timer: one
// cancellable wait with two resolution sources, exactly one outcome. Returns
// false when the device is already gone.
func (c *conn) awaitConfig() bool {
	timer := time.NewTimer(c.configWait)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			log.Debug("Handshake window elapsed, keeping defaults", "session", c.sess.ID)
			return true

		case in, ok := <-c.frames:
			if !ok {
				return false
			}
			switch in.Kind {
			case protocol.CONN_CLOSE, protocol.READ_FAILURE:
				return false

			case protocol.BINARY_OK:
				log.Warn("Binary frame during handshake, ignoring", "session", c.sess.ID)

			case protocol.TEXT_OK:
				ctl, err := protocol.ParseControl(in.Msg)
				if err != nil {
					log.Warn("Malformed handshake frame, ignoring", "session", c.sess.ID, "err", err)
					continue
				}
				if ctl.Kind != protocol.CtlSetConfig {
					log.Warn("Unexpected control before config, ignoring", "session", c.sess.ID)
					continue
				}
				c.sess.Configure(ctl.Voice, ctl.Prompt)
				if err := c.ws.WriteText([]byte(protocol.FrameConfigOK)); err != nil {
					return false
				}
				return true
			}
		}
	}
}

func (c *conn) onBinary(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateReceiving {
		log.Warn("Binary frame outside upload, ignoring", "session", c.sess.ID, "bytes", len(p))
		return
	}
	c.sink.Append(p)
}

func (c *conn) onControl(raw []byte) {
	ctl, err := protocol.ParseControl(raw)
	if err != nil {
		log.Warn("Malformed control frame, ignoring", "session", c.sess.ID, "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch ctl.Kind {
	case protocol.CtlStart:
		if c.state == stateProcessing {
			// one utterance at a time; the in-flight one wins
			log.Warn("START while processing, ignoring", "session", c.sess.ID)
			return
		}
		c.sink.Begin()
		c.state = stateReceiving

	case protocol.CtlEnd:
		if c.state != stateReceiving {
			log.Warn("END outside upload, ignoring", "session", c.sess.ID)
			return
		}
		buf, ok := c.sink.End()
		if !ok {
			c.state = stateIdle
			return
		}
		c.state = stateProcessing
		log.Info("Upload complete", "session", c.sess.ID, "bytes", len(buf))
		go c.process(buf)

	case protocol.CtlSetConfig:
		log.Warn("SET_CONFIG after handshake, ignoring", "session", c.sess.ID)
	}
}

// process runs the Processing phase off the read loop. It deliberately uses a
// background context: a disconnect mid-processing lets in-flight calls finish
// and their sends fail silently.
func (c *conn) process(buf []byte) {
	c.pipe.HandleUtterance(context.Background(), c.ws, c.sess, buf)

	c.mu.Lock()
	if c.state == stateProcessing {
		c.state = stateIdle
	}
	c.mu.Unlock()
}

func (c *conn) setState(s connState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *conn) close() {
	c.mu.Lock()
	c.state = stateClosed
	c.sink.Discard()
	c.mu.Unlock()
	_ = c.ws.Close()

	// unblock the reader if it is parked on the channel send
	go func() {
		for range c.frames {
		}
	}()
}
