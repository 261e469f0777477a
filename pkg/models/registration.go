package models

import (
	"errors"
	"fmt"
	"math/big"

	"creatorpay/pkg/units"
)

const (
	MinPlatformShare = 1
	MaxPlatformShare = 30
)

// MinSubscriptionFee is 0.001 ETH in wei.
var MinSubscriptionFee = big.NewInt(1_000_000_000_000_000)

var (
	ErrFeeTooLow    = errors.New("subscription fee must be at least 0.001 ETH")
	ErrInvalidShare = errors.New("platform share must be between 1 and 30 percent")
)

// ValidateRegistration parses an ether fee and checks both registration
// parameters. It returns the fee in wei.
func ValidateRegistration(fee string, platformShare int) (*big.Int, error) {
	wei, err := units.ParseEther(fee)
	if err != nil {
		return nil, err
	}
	if wei.Cmp(MinSubscriptionFee) < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrFeeTooLow, units.FormatEth(wei))
	}
	if platformShare < MinPlatformShare || platformShare > MaxPlatformShare {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShare, platformShare)
	}
	return wei, nil
}
