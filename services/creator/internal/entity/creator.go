package entity

import (
	"time"

	"creatorpay/pkg/models"
)

const UnnamedCreator = "Unnamed Creator"

type NameSource string

const (
	NameSourceProfile NameSource = "profile"
	NameSourceChain   NameSource = "chain"
)

type Dashboard struct {
	Address         string        `json:"address"`
	Name            string        `json:"name"`
	AvatarURL       string        `json:"avatar_url,omitempty"`
	IsRegistered    bool          `json:"is_registered"`
	SubscriptionFee models.Amount `json:"subscription_fee"`
	PlatformShare   uint64        `json:"platform_share"`
	TotalEarnings   models.Amount `json:"total_earnings"`
	PlatformBalance models.Amount `json:"platform_balance"`
	SubscriberCount int           `json:"subscriber_count"`
}

// Activity is one Subscribed event in a creator's history.
type Activity struct {
	Subscriber  string        `json:"subscriber"`
	ExpiresAt   time.Time     `json:"expires_at"`
	BlockNumber uint64        `json:"block_number"`
	BlockTime   *time.Time    `json:"block_time,omitempty"`
	TxHash      string        `json:"tx_hash"`
	LogIndex    uint          `json:"log_index"`
	AmountPaid  models.Amount `json:"amount_paid"`
	GasLimit    uint64        `json:"gas_limit"`
}

type Profile struct {
	Address    string     `json:"address"`
	Name       string     `json:"name"`
	NameSource NameSource `json:"name_source"`
	AvatarURL  string     `json:"avatar_url"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
