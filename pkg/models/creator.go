package models

import (
	"math/big"
	"strings"

	"creatorpay/pkg/units"
)

// CreatorOnChain mirrors the creators(address) struct of the subscription contract.
type CreatorOnChain struct {
	Address         string   `json:"address"`
	Name            string   `json:"name"`
	SubscriptionFee *big.Int `json:"subscription_fee"`
	PlatformShare   uint64   `json:"platform_share"`
	CreatorBalance  *big.Int `json:"creator_balance"`
	PlatformBalance *big.Int `json:"platform_balance"`
}

// IsRegistered reports whether the contract knows the creator. The contract
// leaves the fee at zero for unknown addresses.
func (c *CreatorOnChain) IsRegistered() bool {
	return c != nil && c.SubscriptionFee != nil && c.SubscriptionFee.Sign() > 0
}

// DisplayName prefers the on-chain name, then fallback, then the short address.
func (c *CreatorOnChain) DisplayName(fallback string) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(fallback); name != "" {
		return name
	}
	return units.ShortAddress(c.Address)
}

// Creator is an entry of the discovery listing.
type Creator struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Demo    bool   `json:"demo,omitempty"`
}

// Amount carries a wei value together with its ether rendering.
type Amount struct {
	Wei string `json:"wei"`
	Eth string `json:"eth"`
}

func NewAmount(wei *big.Int) Amount {
	if wei == nil {
		wei = new(big.Int)
	}
	return Amount{Wei: wei.String(), Eth: units.FormatEth(wei)}
}
