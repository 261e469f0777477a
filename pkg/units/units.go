// Package units converts between wei and human readable ether amounts and
// renders wallet addresses for display.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

var (
	ErrInvalidAmount  = errors.New("invalid ether amount")
	ErrInvalidAddress = errors.New("invalid address")
)

var weiPerEther = new(big.Int).SetUint64(params.Ether)

const displayDecimals = 4

// FormatEth renders wei as ether with four decimals, rounding half away from zero.
func FormatEth(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}

	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(18-displayDecimals), nil)
	half := new(big.Int).Rsh(scale, 1)
	ticks := new(big.Int).Quo(abs.Add(abs, half), scale)

	whole, frac := ticks.QuoRem(ticks, new(big.Int).Exp(big.NewInt(10), big.NewInt(displayDecimals), nil), new(big.Int))

	out := fmt.Sprintf("%s.%0*d", whole.String(), displayDecimals, frac.Int64())
	if neg && (whole.Sign() > 0 || frac.Sign() > 0) {
		out = "-" + out
	}
	return out
}

// ParseEther converts a decimal ether string such as "0.05" into wei.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" && whole == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 18 {
		return nil, fmt.Errorf("%w: more than 18 decimals", ErrInvalidAmount)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	digits := whole + frac + strings.Repeat("0", 18-len(frac))
	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return wei, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func DefaultCreatorName(addr string) string {
	return "Creator " + ShortAddress(addr)
}

// NormalizeAddress validates a hex address and returns its lowercase form.
func NormalizeAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}

// AddressKey is the lowercase form of a parsed address, used as a map and cache key.
func AddressKey(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
