package model

import "time"

type SubscriptionEventModel struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	Subscriber  string     `gorm:"type:varchar(42);not null" json:"subscriber"`
	Creator     string     `gorm:"type:varchar(42);not null;index" json:"creator"`
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
