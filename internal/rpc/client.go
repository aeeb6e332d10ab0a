package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// transport carries one request/response exchange.
type transport interface {
	roundTrip(ctx context.Context, req Request) (Response, error)
	close() error
}

// Client implements model.Requester over HTTP, WebSocket or a Unix domain
// socket using JSON-RPC 2.0.
type Client struct {
	t transport

	mu     sync.Mutex
	nextID int
}

// Dial returns a client for the provider at endpoint. The scheme selects the
// transport: http(s):// and ws(s):// URLs, or ipc://<path> and absolute paths
// for a local socket. No connection is made until the first request, so an
// unreachable provider surfaces as a *TransportError from Request.
func Dial(endpoint string) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)

	var t transport
	switch {
	case strings.HasPrefix(endpoint, "http://"), strings.HasPrefix(endpoint, "https://"):
		t = newHTTPTransport(endpoint)
	case strings.HasPrefix(endpoint, "ws://"), strings.HasPrefix(endpoint, "wss://"):
		t = newWSTransport(endpoint)
	case strings.HasPrefix(endpoint, "ipc://"):
		t = newUnixTransport(strings.TrimPrefix(endpoint, "ipc://"))
	case strings.HasPrefix(endpoint, "/"):
		t = newUnixTransport(endpoint)
	default:
		return nil, fmt.Errorf("rpc: unsupported endpoint %q", endpoint)
	}
	return &Client{t: t}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.t.close()
}

// Request performs a JSON-RPC call and unmarshals the result into result.
// A nil result discards the payload.
func (c *Client) Request(ctx context.Context, method string, params any, result any) error {
	if params == nil {
		params = []any{}
	}
	paramsData, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("rpc: marshal params: %w", err)
	}

	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	req := Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	resp, err := c.t.roundTrip(ctx, req)
	if err != nil {
		return err
	}

	if resp.Error != nil {
		return resp.Error
	}

	if result != nil {
		if len(resp.Result) == 0 {
			resp.Result = json.RawMessage("null")
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("rpc: unmarshal %s result: %w", method, err)
		}
	}
	return nil
}
