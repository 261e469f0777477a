package model

import "time"

type CreatorRegistrationModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	Creator       string    `gorm:"type:varchar(42);not null;index" json:"creator"`
	Fee           string    `gorm:"type:numeric(78,0);not null" json:"fee"`
	PlatformShare uint64    `gorm:"not null" json:"platform_share"`
	BlockNumber   uint64    `gorm:"not null" json:"block_number"`
	TxHash        string    `gorm:"type:varchar(66);not null" json:"tx_hash"`
	LogIndex      uint      `gorm:"not null" json:"log_index"`
	CreatedAt     time.Time `json:"created_at"`
}

func (CreatorRegistrationModel) TableName() string {
	return "creator_registrations"
}

type SubscriptionEventModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	Subscriber  string     `gorm:"type:varchar(42);not null" json:"subscriber"`
	Creator     string     `gorm:"type:varchar(42);not null;index" json:"creator"`
	ExpiresAt   int64      `gorm:"not null" json:"expires_at"`
	Amount      string     `gorm:"type:numeric(78,0);not null" json:"amount"`
	GasLimit    uint64     `gorm:"not null" json:"gas_limit"`
	BlockNumber uint64     `gorm:"not null" json:"block_number"`
	BlockTime   *time.Time `json:"block_time"`
	TxHash      string     `gorm:"type:varchar(66);not null" json:"tx_hash"`
	LogIndex    uint       `gorm:"not null" json:"log_index"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (SubscriptionEventModel) TableName() string {
	return "subscription_events"
}

type IndexerCursorModel struct {
	Name        string    `gorm:"type:varchar(64);primary_key" json:"name"`
	BlockNumber uint64    `gorm:"not null" json:"block_number"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (IndexerCursorModel) TableName() string {
	return "indexer_cursors"
}

type CreatorProfileModel struct {
	Address    string    `gorm:"type:varchar(42);primary_key" json:"address"`
	Name       string    `gorm:"type:varchar(64);not null" json:"name"`
	NameSource string    `gorm:"type:varchar(16);not null" json:"name_source"`
	AvatarURL  string    `gorm:"type:text;not null" json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CreatorProfileModel) TableName() string {
	return "creator_profiles"
}
