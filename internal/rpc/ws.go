package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsTransport speaks JSON-RPC over a WebSocket (Frame's ws://127.0.0.1:1248,
// node ws ports). Requests are multiplexed over one connection and pushed
// notifications are skipped. The connection is dialed on first use. A failed
// read poisons a gorilla connection, so it is dropped and redialed on the
// next request.
type wsTransport struct {
	url string

	mu  sync.Mutex
	mux *muxConn
}

func newWSTransport(url string) *wsTransport {
	return &wsTransport{url: url}
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) writeFrame(req Request, deadline time.Time) error {
	c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteJSON(req)
}

func (c *wsConn) readFrame() (Response, error) {
	var resp Response
	err := c.conn.ReadJSON(&resp)
	return resp, err
}

func (c *wsConn) close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

func (w *wsTransport) conn(ctx context.Context) (*muxConn, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mux != nil && w.mux.alive() {
		return w.mux, nil
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: dialTimeout,
		Proxy:            websocket.DefaultDialer.Proxy,
	}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	w.mux = newMuxConn(&wsConn{conn: conn})
	return w.mux, nil
}

func (w *wsTransport) roundTrip(ctx context.Context, req Request) (Response, error) {
	m, err := w.conn(ctx)
	if err != nil {
		return Response{}, err
	}
	return m.call(ctx, req)
}

func (w *wsTransport) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.mux == nil {
		return nil
	}
	err := w.mux.close()
	w.mux = nil
	return err
}
