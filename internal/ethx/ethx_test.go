package ethx

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestParseAddress_ChecksumForm(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, v := range vectors {
		a, err := ParseAddress(strings.ToLower(v))
		if err != nil {
			t.Fatalf("ParseAddress(%s): %v", v, err)
		}
		if got := a.Hex(); got != v {
			t.Errorf("Hex() = %s, want %s", got, v)
		}
	}

	bare, err := ParseAddress(" 5aaeb6053f3e94c9b9a09f33669435e7ef1beaed ")
	if err != nil {
		t.Fatalf("bare address: %v", err)
	}
	if Lower(bare) != "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed" {
		t.Errorf("Lower() = %s", Lower(bare))
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	for _, in := range []string{"", "0x1234", "0xzz5aeb6053f3e94c9b9a09f33669435e7ef1beae", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00"} {
		if _, err := ParseAddress(in); err == nil {
			t.Errorf("ParseAddress(%q) succeeded, want error", in)
		}
	}
}

func TestShort(t *testing.T) {
	a := common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if got := Short(a); got != "0x5aAe...eAed" {
		t.Errorf("Short() = %q", got)
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(common.Address{}) {
		t.Error("zero address not reported as zero")
	}
	if IsZero(common.HexToAddress("0x01")) {
		t.Error("non-zero address reported as zero")
	}
}
