package models

import (
	"math/big"
	"testing"

	"creatorpay/pkg/units"

	"github.com/stretchr/testify/assert"
)

func TestCreatorOnChain_IsRegistered(t *testing.T) {
	var missing *CreatorOnChain
	assert.False(t, missing.IsRegistered())
	assert.False(t, (&CreatorOnChain{SubscriptionFee: big.NewInt(0)}).IsRegistered())
	assert.True(t, (&CreatorOnChain{SubscriptionFee: big.NewInt(1)}).IsRegistered())
}

func TestCreatorOnChain_DisplayName(t *testing.T) {
	c := &CreatorOnChain{Address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"}
	assert.Equal(t, "0x7099...79C8", c.DisplayName(""))
	assert.Equal(t, "Demo Creator 1", c.DisplayName("  Demo Creator 1 "))

	c.Name = " Digital Artist "
	assert.Equal(t, "Digital Artist", c.DisplayName("Demo Creator 1"))
}

func TestNewAmount(t *testing.T) {
	a := NewAmount(big.NewInt(50000000000000000))
	assert.Equal(t, "50000000000000000", a.Wei)
	assert.Equal(t, "0.0500", a.Eth)
	assert.Equal(t, Amount{Wei: "0", Eth: "0.0000"}, NewAmount(nil))
}

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		fee     string
		share   int
		wantErr error
		wantWei string
	}{
		{name: "minimum fee", fee: "0.001", share: 1, wantWei: "1000000000000000"},
		{name: "maximum share", fee: "0.05", share: 30, wantWei: "50000000000000000"},
		{name: "fee below minimum", fee: "0.0009", share: 10, wantErr: ErrFeeTooLow},
		{name: "zero share", fee: "0.01", share: 0, wantErr: ErrInvalidShare},
		{name: "share above maximum", fee: "0.01", share: 31, wantErr: ErrInvalidShare},
		{name: "not a number", fee: "abc", share: 10, wantErr: units.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, err := ValidateRegistration(tt.fee, tt.share)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantWei, wei.String())
		})
	}
}
