package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tinytelemetry/bakery/internal/model"
	"github.com/tinytelemetry/bakery/internal/rpc"
)

var (
	// ErrUnavailable means no wallet provider answered at the endpoint.
	ErrUnavailable = errors.New("wallet not available")
	// ErrRejected means the user declined the request in the wallet.
	ErrRejected = errors.New("request rejected by user")
	// ErrNoAccounts means the wallet answered with an empty account list.
	ErrNoAccounts = errors.New("wallet returned no accounts")
)

// Provider issues EIP-1193 wallet requests through a JSON-RPC requester.
type Provider struct {
	req model.Requester
}

// NewProvider wraps a requester (usually an *rpc.Client).
func NewProvider(req model.Requester) *Provider {
	return &Provider{req: req}
}

// Accounts returns the accounts already authorized for this client, without
// prompting. An empty result means no session.
func (p *Provider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.req.Request(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, classify("eth_accounts", err)
	}
	return accounts, nil
}

// RequestAccounts asks the wallet to authorize accounts, which may prompt the
// user. It fails with ErrNoAccounts when the wallet approves nothing.
func (p *Provider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.req.Request(ctx, "eth_requestAccounts", nil, &accounts); err != nil {
		return nil, classify("eth_requestAccounts", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	return accounts, nil
}

// ChainID returns the wallet's active chain.
func (p *Provider) ChainID(ctx context.Context) (uint64, error) {
	var raw string
	if err := p.req.Request(ctx, "eth_chainId", nil, &raw); err != nil {
		return 0, classify("eth_chainId", err)
	}
	id, err := hexutil.DecodeUint64(raw)
	if err != nil {
		return 0, fmt.Errorf("wallet: eth_chainId: %w", err)
	}
	return id, nil
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// SwitchChain asks the wallet to make chain the active network.
func (p *Provider) SwitchChain(ctx context.Context, chain model.Chain) error {
	params := []switchChainParams{{ChainID: chain.HexID()}}
	if err := p.req.Request(ctx, "wallet_switchEthereumChain", params, nil); err != nil {
		return classify("wallet_switchEthereumChain", err)
	}
	return nil
}

type addChainParams struct {
	ChainID           string               `json:"chainId"`
	ChainName         string               `json:"chainName"`
	NativeCurrency    model.NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string             `json:"rpcUrls"`
	BlockExplorerURLs []string             `json:"blockExplorerUrls,omitempty"`
}

// AddChain registers chain with the wallet. Most wallets switch to it too.
func (p *Provider) AddChain(ctx context.Context, chain model.Chain) error {
	params := []addChainParams{{
		ChainID:           chain.HexID(),
		ChainName:         chain.Name,
		NativeCurrency:    chain.NativeCurrency,
		RPCURLs:           chain.RPCURLs,
		BlockExplorerURLs: chain.ExplorerURLs,
	}}
	if err := p.req.Request(ctx, "wallet_addEthereumChain", params, nil); err != nil {
		return classify("wallet_addEthereumChain", err)
	}
	return nil
}

// EnsureChain makes chain the wallet's active network. An unrecognized chain
// (4902) is added. Other switch failures are logged and ignored so the
// session can still connect; reads then go to whatever chain the wallet is on.
func (p *Provider) EnsureChain(ctx context.Context, chain model.Chain) error {
	current, err := p.ChainID(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		log.Printf("wallet: chain id lookup failed, requesting switch: %v", err)
	} else if current == chain.ID {
		return nil
	}

	err = p.SwitchChain(ctx, chain)
	if err == nil {
		return nil
	}
	if code, ok := rpc.ErrorCode(err); ok && code == rpc.CodeUnrecognizedChain {
		if err := p.AddChain(ctx, chain); err != nil {
			return err
		}
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	log.Printf("wallet: switch to chain %d (%s) failed: %v", chain.ID, chain.Name, err)
	return nil
}

// classify maps transport failures and user rejections onto package
// sentinels while keeping the original error in the chain.
func classify(method string, err error) error {
	if rpc.IsTransport(err) {
		return fmt.Errorf("wallet: %s: %w: %w", method, ErrUnavailable, err)
	}
	if code, ok := rpc.ErrorCode(err); ok && code == rpc.CodeUserRejected {
		return fmt.Errorf("wallet: %s: %w: %w", method, ErrRejected, err)
	}
	return fmt.Errorf("wallet: %s: %w", method, err)
}
