package model

import "time"

// Shared defaults used by both the watcher and TUI binaries.
const (
	DefaultUpdateInterval  = 5 * time.Second
	DefaultReceiptInterval = 2 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultConfirmTimeout  = 10 * time.Minute
	DefaultSkin            = "default"
	DefaultEndpoint        = "http://127.0.0.1:1248"

	DefaultContractAddress = "0x01cac31f6876691e289e3944a3c7e594a21fc9e7"
)

// Game constants as the contract advertises them. They only drive captions;
// the contract remains the authority.
const (
	CheckInsPerPizza = 4
	PointsPerLevel   = 100
	CheckInCooldown  = 15 * time.Minute
)

// BaseMainnet is the network the bakery contract is deployed on.
var BaseMainnet = Chain{
	ID:   8453,
	Name: "Base",
	NativeCurrency: NativeCurrency{
		Name:     "Ethereum",
		Symbol:   "ETH",
		Decimals: 18,
	},
	RPCURLs:      []string{"https://mainnet.base.org"},
	ExplorerURLs: []string{"https://basescan.org"},
}
