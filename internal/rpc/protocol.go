package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Wallet JSON-RPC Method Reference
//
// The client speaks JSON-RPC 2.0 to a wallet provider (or a node with
// unlocked accounts). These are the methods the bakery issues:
//
//   Method                         Params                                   Result
//   ────────────────────────────   ──────────────────────────────────────   ──────────────────
//   eth_accounts                   []                                       []address (silent)
//   eth_requestAccounts            []                                       []address (prompts)
//   eth_chainId                    []                                       quantity
//   wallet_switchEthereumChain     [{chainId}]                              null
//   wallet_addEthereumChain        [{chainId, chainName, nativeCurrency,    null
//                                    rpcUrls, blockExplorerUrls}]
//   eth_call                       [{to, data}, "latest"]                   data
//   eth_sendTransaction            [{from, to, data}]                       tx hash (prompts)
//   eth_getTransactionReceipt      [tx hash]                                receipt or null
//
// Error codes:
//   -32700  Parse error            -32600  Invalid request
//   -32601  Method not found       -32602  Invalid params
//   -32603  Internal error         -32000  Server error
//    4001   User rejected request   4100   Unauthorized
//    4200   Unsupported method      4900   Disconnected
//    4901   Chain disconnected      4902   Unrecognized chain

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000

	CodeUserRejected      = 4001
	CodeUnauthorized      = 4100
	CodeUnsupportedMethod = 4200
	CodeDisconnected      = 4900
	CodeChainDisconnected = 4901
	CodeUnrecognizedChain = 4902
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response. Method is only set on server-pushed
// notifications (eth_subscription), which carry no ID.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object returned by the provider.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ErrorCode returns the provider error code carried by err, if any.
func ErrorCode(err error) (int, bool) {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}
	return 0, false
}

// TransportError reports that the provider could not be reached or the
// exchange broke before a JSON-RPC response arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("rpc: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a transport failure rather than a
// provider answer.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
