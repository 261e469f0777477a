package entity

import (
	"time"

	"creatorpay/pkg/eth"
	"creatorpay/pkg/models"
)

// Subscription is the viewer's relation to one registered creator.
type Subscription struct {
	Creator         string        `json:"creator"`
	CreatorName     string        `json:"creator_name"`
	SubscriptionFee models.Amount `json:"subscription_fee"`
	PlatformShare   uint64        `json:"platform_share"`
	ExpiresAt       *time.Time    `json:"expires_at,omitempty"`
	Active          bool          `json:"active"`
}

type SubscribeIntent struct {
	Creator         string          `json:"creator"`
	CreatorName     string          `json:"creator_name"`
	SubscriptionFee models.Amount   `json:"subscription_fee"`
	Renewal         bool            `json:"renewal"`
	Transaction     *eth.PreparedTx `json:"transaction"`
}

type Status struct {
	Creator    string     `json:"creator"`
	Subscriber string     `json:"subscriber"`
	Subscribed bool       `json:"subscribed"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
