package entity

import (
	"time"

	"creatorpay/pkg/models"
)

type ListingSource string

const (
	SourceEvents   ListingSource = "events"
	SourceContract ListingSource = "contract"
	SourceDemo     ListingSource = "demo"
)

// Listing is the discovery result shown on the subscriber side.
type Listing struct {
	Creators      []models.Creator `json:"creators"`
	Source        ListingSource    `json:"source"`
	ContractError string           `json:"contract_error,omitempty"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

type CreatorCard struct {
	Address         string        `json:"address"`
	DisplayName     string        `json:"display_name"`
	OnChainName     string        `json:"on_chain_name,omitempty"`
	AvatarURL       string        `json:"avatar_url,omitempty"`
	Registered      bool          `json:"registered"`
	SubscriptionFee models.Amount `json:"subscription_fee"`
	PlatformShare   uint64        `json:"platform_share"`
	CreatorBalance  models.Amount `json:"creator_balance"`
	PlatformBalance models.Amount `json:"platform_balance"`
	Subscribed      bool          `json:"subscribed"`
}

type Profile struct {
	Address    string    `json:"address"`
	Name       string    `json:"name"`
	NameSource string    `json:"name_source"`
	AvatarURL  string    `json:"avatar_url"`
	UpdatedAt  time.Time `json:"updated_at"`
}
