package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tinytelemetry/bakery/internal/model"
	"github.com/tinytelemetry/bakery/internal/rpc"
)

type call struct {
	method string
	params json.RawMessage
}

// fakeRequester answers from a method table and records every call.
type fakeRequester struct {
	results map[string]any
	errs    map[string]error
	calls   []call
}

func (f *fakeRequester) Request(_ context.Context, method string, params any, result any) error {
	raw, _ := json.Marshal(params)
	f.calls = append(f.calls, call{method: method, params: raw})
	if err, ok := f.errs[method]; ok {
		return err
	}
	if result == nil {
		return nil
	}
	data, err := json.Marshal(f.results[method])
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (f *fakeRequester) methods() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.method
	}
	return out
}

func equalMethods(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

const testAccount = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func TestAccounts(t *testing.T) {
	f := &fakeRequester{results: map[string]any{
		"eth_accounts": []string{"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
	}}
	p := NewProvider(f)

	accounts, err := p.Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Hex() != testAccount {
		t.Fatalf("accounts = %v", accounts)
	}
}

func TestAccounts_Empty(t *testing.T) {
	f := &fakeRequester{results: map[string]any{"eth_accounts": []string{}}}
	accounts, err := NewProvider(f).Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accounts) != 0 {
		t.Fatalf("accounts = %v, want none", accounts)
	}
}

func TestRequestAccounts_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result any
		want   error
	}{
		{
			name: "rejected",
			err:  &rpc.Error{Code: rpc.CodeUserRejected, Message: "User rejected the request."},
			want: ErrRejected,
		},
		{
			name: "unavailable",
			err:  &rpc.TransportError{Op: "post", Err: errors.New("connection refused")},
			want: ErrUnavailable,
		},
		{
			name:   "no accounts",
			result: []string{},
			want:   ErrNoAccounts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRequester{
				results: map[string]any{"eth_requestAccounts": tt.result},
				errs:    map[string]error{},
			}
			if tt.err != nil {
				f.errs["eth_requestAccounts"] = tt.err
			}
			_, err := NewProvider(f).RequestAccounts(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEnsureChain_AlreadyActive(t *testing.T) {
	f := &fakeRequester{results: map[string]any{"eth_chainId": "0x2105"}}
	if err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet); err != nil {
		t.Fatalf("EnsureChain: %v", err)
	}
	if got := f.methods(); !equalMethods(got, []string{"eth_chainId"}) {
		t.Fatalf("calls = %v", got)
	}
}

func TestEnsureChain_Switches(t *testing.T) {
	f := &fakeRequester{results: map[string]any{"eth_chainId": "0x1"}}
	if err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet); err != nil {
		t.Fatalf("EnsureChain: %v", err)
	}
	if got := f.methods(); !equalMethods(got, []string{"eth_chainId", "wallet_switchEthereumChain"}) {
		t.Fatalf("calls = %v", got)
	}

	var params []map[string]string
	if err := json.Unmarshal(f.calls[1].params, &params); err != nil {
		t.Fatalf("switch params: %v", err)
	}
	if len(params) != 1 || params[0]["chainId"] != "0x2105" {
		t.Fatalf("switch params = %s", f.calls[1].params)
	}
}

func TestEnsureChain_AddsUnrecognizedChain(t *testing.T) {
	f := &fakeRequester{
		results: map[string]any{"eth_chainId": "0x1"},
		errs: map[string]error{
			"wallet_switchEthereumChain": &rpc.Error{Code: rpc.CodeUnrecognizedChain, Message: "Unrecognized chain ID"},
		},
	}
	if err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet); err != nil {
		t.Fatalf("EnsureChain: %v", err)
	}
	want := []string{"eth_chainId", "wallet_switchEthereumChain", "wallet_addEthereumChain"}
	if got := f.methods(); !equalMethods(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}

	var params []struct {
		ChainID        string               `json:"chainId"`
		ChainName      string               `json:"chainName"`
		NativeCurrency model.NativeCurrency `json:"nativeCurrency"`
		RPCURLs        []string             `json:"rpcUrls"`
		Explorers      []string             `json:"blockExplorerUrls"`
	}
	if err := json.Unmarshal(f.calls[2].params, &params); err != nil {
		t.Fatalf("add params: %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("add params = %s", f.calls[2].params)
	}
	got := params[0]
	if got.ChainID != "0x2105" || got.ChainName != "Base" {
		t.Errorf("chain = %s %q", got.ChainID, got.ChainName)
	}
	if got.NativeCurrency != (model.NativeCurrency{Name: "Ethereum", Symbol: "ETH", Decimals: 18}) {
		t.Errorf("native currency = %+v", got.NativeCurrency)
	}
	if len(got.RPCURLs) != 1 || got.RPCURLs[0] != "https://mainnet.base.org" {
		t.Errorf("rpc urls = %v", got.RPCURLs)
	}
	if len(got.Explorers) != 1 || got.Explorers[0] != "https://basescan.org" {
		t.Errorf("explorers = %v", got.Explorers)
	}
}

func TestEnsureChain_AddFailureIsReturned(t *testing.T) {
	f := &fakeRequester{
		results: map[string]any{"eth_chainId": "0x1"},
		errs: map[string]error{
			"wallet_switchEthereumChain": &rpc.Error{Code: rpc.CodeUnrecognizedChain, Message: "Unrecognized chain ID"},
			"wallet_addEthereumChain":    &rpc.Error{Code: rpc.CodeUserRejected, Message: "User rejected the request."},
		},
	}
	err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want ErrRejected", err)
	}
}

func TestEnsureChain_OtherSwitchFailureProceeds(t *testing.T) {
	f := &fakeRequester{
		results: map[string]any{"eth_chainId": "0x1"},
		errs: map[string]error{
			"wallet_switchEthereumChain": &rpc.Error{Code: rpc.CodeUserRejected, Message: "User rejected the request."},
		},
	}
	if err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet); err != nil {
		t.Fatalf("EnsureChain: %v, want nil", err)
	}
	if got := f.methods(); !equalMethods(got, []string{"eth_chainId", "wallet_switchEthereumChain"}) {
		t.Fatalf("calls = %v", got)
	}
}

func TestEnsureChain_Unavailable(t *testing.T) {
	f := &fakeRequester{errs: map[string]error{
		"eth_chainId": &rpc.TransportError{Op: "post", Err: errors.New("connection refused")},
	}}
	err := NewProvider(f).EnsureChain(context.Background(), model.BaseMainnet)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestClassify_KeepsCode(t *testing.T) {
	err := classify("eth_call", &rpc.Error{Code: rpc.CodeInternalError, Message: "execution reverted"})
	code, ok := rpc.ErrorCode(err)
	if !ok || code != rpc.CodeInternalError {
		t.Fatalf("code = %d %v", code, ok)
	}
	if errors.Is(err, ErrRejected) || errors.Is(err, ErrUnavailable) {
		t.Fatalf("plain provider error classified as sentinel: %v", err)
	}
}
