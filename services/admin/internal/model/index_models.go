package model

import "time"

type CreatorRegistrationModel struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	Creator       string    `gorm:"type:varchar(42);not null" json:"creator"`
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
	Creator     string     `gorm:"type:varchar(42);not null" json:"creator"`
	ExpiresAt   int64      `gorm:"not null" json:"expires_at"`
	Amount      string     `gorm:"type:numeric(78,0);not null;default:0" json:"amount"`
	GasLimit    uint64     `gorm:"not null;default:0" json:"gas_limit"`
	BlockNumber uint64     `gorm:"not null" json:"block_number"`
	BlockTime   *time.Time `json:"block_time"`
	TxHash      string     `gorm:"type:varchar(66);not null" json:"tx_hash"`
	LogIndex    uint       `gorm:"not null" json:"log_index"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (SubscriptionEventModel) TableName() string {
	return "subscription_events"
}

type CreatorProfileModel struct {
	Address string `gorm:"type:varchar(42);primary_key" json:"address"`
	Name    string `gorm:"type:varchar(64)" json:"name"`
}

func (CreatorProfileModel) TableName() string {
	return "creator_profiles"
}
