package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxHTTPResponseSize = 10 * 1024 * 1024

// httpTransport posts each request to a JSON-RPC HTTP endpoint (Frame's local
// provider, a node's --http port).
type httpTransport struct {
	url    string
	client *http.Client
}

func newHTTPTransport(url string) *httpTransport {
	return &httpTransport{
		url: url,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (h *httpTransport) roundTrip(ctx context.Context, req Request) (Response, error) {
	var resp Response

	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("rpc: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return resp, fmt.Errorf("rpc: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return resp, &TransportError{Op: "post", Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxHTTPResponseSize))
	if err != nil {
		return resp, &TransportError{Op: "read", Err: err}
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return resp, &TransportError{Op: "post", Err: fmt.Errorf("http status %d", httpResp.StatusCode)}
		}
		return resp, &TransportError{Op: "unmarshal response", Err: err}
	}
	if resp.ID != req.ID {
		return resp, &TransportError{Op: "read", Err: fmt.Errorf("response id %d does not match request id %d", resp.ID, req.ID)}
	}
	return resp, nil
}

func (h *httpTransport) close() error {
	h.client.CloseIdleConnections()
	return nil
}
