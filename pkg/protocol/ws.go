package protocol

import (
	log "log/slog"
	"sync"

	ws "github.com/gorilla/websocket"
)

// WebSocket wraps one accepted device connection. Reads happen from a single
// loop; writes are serialized with a mutex because the reply pipeline runs on
// its own goroutine.
type WebSocket struct {
	conn    *ws.Conn
	writeMu sync.Mutex
}

func NewWebSocket(conn *ws.Conn) *WebSocket {
	return &WebSocket{conn: conn}
}

func (web *WebSocket) WriteText(payload []byte) error {
	web.writeMu.Lock()
	defer web.writeMu.Unlock()
	log.Debug("Write ws", "msg", string(payload))
	return web.conn.WriteMessage(ws.TextMessage, payload)
}

func (web *WebSocket) WriteBinary(payload []byte) error {
	web.writeMu.Lock()
	defer web.writeMu.Unlock()
	return web.conn.WriteMessage(ws.BinaryMessage, payload)
}

type WsIncomeKind uint

const (
	CONN_CLOSE WsIncomeKind = iota
	READ_FAILURE
	TEXT_OK
	BINARY_OK
)

type Income struct {
	Kind WsIncomeKind
	Msg  []byte
	Err  error
}

// Read blocks for the next frame. Gorilla read errors are permanent, so the
// caller's read loop must stop on CONN_CLOSE and READ_FAILURE alike.
func (web *WebSocket) Read() Income {
	mt, msg, err := web.conn.ReadMessage()
	if err != nil {
		if WsIsClosed(err) {
			return Income{Kind: CONN_CLOSE, Err: err}
		}
		return Income{Kind: READ_FAILURE, Err: err}
	}

	if mt == ws.BinaryMessage {
		return Income{Kind: BINARY_OK, Msg: msg}
	}
	log.Debug("Read ws", "msg", string(msg))
	return Income{Kind: TEXT_OK, Msg: msg}
}

func (web *WebSocket) Close() error {
	return web.conn.Close()
}

func WsIsClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
