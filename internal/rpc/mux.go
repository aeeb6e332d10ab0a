package rpc

import (
	"context"
	"errors"
	"sync"
	"time"
)

// frameConn is a connection that carries whole JSON-RPC messages. Writes
// are serialized by the caller; readFrame is only called by the reader
// goroutine.
type frameConn interface {
	writeFrame(req Request, deadline time.Time) error
	readFrame() (Response, error)
	close() error
}

var errConnClosed = errors.New("connection closed")

// muxConn multiplexes concurrent requests over one frameConn. A single
// reader goroutine hands each response to the caller waiting on its id, so a
// slow call never blocks the others.
type muxConn struct {
	fc frameConn

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[int]chan Response
	err     error
	done    chan struct{}
}

func newMuxConn(fc frameConn) *muxConn {
	m := &muxConn{
		fc:      fc,
		pending: make(map[int]chan Response),
		done:    make(chan struct{}),
	}
	go m.readLoop()
	return m
}

func (m *muxConn) readLoop() {
	for {
		resp, err := m.fc.readFrame()
		if err != nil {
			m.fail(err)
			return
		}
		// Subscription pushes share the connection.
		if resp.Method != "" {
			continue
		}
		m.mu.Lock()
		ch, ok := m.pending[resp.ID]
		delete(m.pending, resp.ID)
		m.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

// fail closes the connection and wakes every waiting caller. Only the first
// error is kept.
func (m *muxConn) fail(err error) {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return
	}
	m.err = err
	m.pending = nil
	close(m.done)
	m.mu.Unlock()
	m.fc.close()
}

// alive reports whether the reader is still running.
func (m *muxConn) alive() bool {
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

func (m *muxConn) call(ctx context.Context, req Request) (Response, error) {
	ch := make(chan Response, 1)

	m.mu.Lock()
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return Response{}, &TransportError{Op: "send", Err: err}
	}
	m.pending[req.ID] = ch
	m.mu.Unlock()

	deadline, _ := ctx.Deadline()
	m.writeMu.Lock()
	err := m.fc.writeFrame(req, deadline)
	m.writeMu.Unlock()
	if err != nil {
		// A partial write leaves the stream unusable.
		m.fail(err)
		return Response{}, &TransportError{Op: "send", Err: err}
	}

	select {
	case resp := <-ch:
		return resp, nil
	case <-m.done:
		select {
		case resp := <-ch:
			return resp, nil
		default:
		}
		return Response{}, &TransportError{Op: "read", Err: m.err}
	case <-ctx.Done():
		m.forget(req.ID)
		return Response{}, &TransportError{Op: "read", Err: ctx.Err()}
	}
}

// forget drops a call whose caller gave up; a late reply is discarded.
func (m *muxConn) forget(id int) {
	m.mu.Lock()
	if m.pending != nil {
		delete(m.pending, id)
	}
	m.mu.Unlock()
}

func (m *muxConn) close() error {
	m.fail(errConnClosed)
	return nil
}
