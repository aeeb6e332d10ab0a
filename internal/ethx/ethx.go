// Package ethx holds the address helpers the bakery layers on top of
// go-ethereum's common types.
package ethx

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress accepts a 0x-prefixed (or bare) 40 hex character address.
// Mixed-case input is not checksum-verified.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("ethx: invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// IsZero reports whether a is the zero address.
func IsZero(a common.Address) bool {
	return a == common.Address{}
}

// Lower renders the all-lowercase form used as a storage key.
func Lower(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// Short renders 0x1234...abcd for headers and status lines.
func Short(a common.Address) string {
	h := a.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}
