package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"
)

const (
	scannerInitBufSize  = 1024 * 1024
	scannerMaxTokenSize = 10 * 1024 * 1024
	dialTimeout         = 5 * time.Second
)

// unixTransport speaks line-delimited JSON over a local IPC socket
// (geth.ipc, wallet daemons). Requests are multiplexed over one socket. The
// socket is dialed on first use and redialed after it breaks, so a wallet
// started later is picked up on the next request.
type unixTransport struct {
	path string

	mu  sync.Mutex
	mux *muxConn
}

func newUnixTransport(path string) *unixTransport {
	return &unixTransport{path: path}
}

type unixConn struct {
	conn    net.Conn
	scanner *bufio.Scanner
	encoder *json.Encoder
}

func (c *unixConn) writeFrame(req Request, deadline time.Time) error {
	c.conn.SetWriteDeadline(deadline)
	return c.encoder.Encode(req)
}

func (c *unixConn) readFrame() (Response, error) {
	var resp Response
	if !c.scanner.Scan() {
		err := c.scanner.Err()
		if err == nil {
			err = errConnClosed
		}
		return resp, err
	}
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *unixConn) close() error {
	return c.conn.Close()
}

// conn returns the live connection, dialing when there is none.
func (u *unixTransport) conn(ctx context.Context) (*muxConn, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.mux != nil && u.mux.alive() {
		return u.mux, nil
	}

	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "unix", u.path)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, scannerInitBufSize), scannerMaxTokenSize)
	u.mux = newMuxConn(&unixConn{
		conn:    conn,
		scanner: scanner,
		encoder: json.NewEncoder(conn),
	})
	return u.mux, nil
}

func (u *unixTransport) roundTrip(ctx context.Context, req Request) (Response, error) {
	m, err := u.conn(ctx)
	if err != nil {
		return Response{}, err
	}
	return m.call(ctx, req)
}

func (u *unixTransport) close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.mux == nil {
		return nil
	}
	err := u.mux.close()
	u.mux = nil
	return err
}
