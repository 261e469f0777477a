package entity

import (
	"time"

	"creatorpay/pkg/models"
)

type Registration struct {
	Creator       string
	Fee           string
	PlatformShare uint64
	BlockNumber   uint64
	TxHash        string
	LogIndex      uint
}

type Subscription struct {
	Subscriber  string
	Creator     string
	ExpiresAt   int64
	Amount      string
	GasLimit    uint64
	BlockNumber uint64
	BlockTime   *time.Time
	TxHash      string
	LogIndex    uint
}

type NameUpdate struct {
	Creator     string
	Name        string
	BlockNumber uint64
}

// Batch is everything decoded from one block range. It is stored together
// with the cursor so a crash never skips or half-applies a range.
type Batch struct {
	From          uint64
	To            uint64
	Registrations []*Registration
	Subscriptions []*Subscription
	Names         []*NameUpdate
	Events        []*models.ChainEvent
}

type SyncResult struct {
	From          uint64 `json:"from"`
	To            uint64 `json:"to"`
	Registrations int    `json:"registrations"`
	Subscriptions int    `json:"subscriptions"`
	Names         int    `json:"names"`
	Skipped       bool   `json:"skipped,omitempty"`
}

type Status struct {
	Cursor     uint64      `json:"cursor"`
	Latest     uint64      `json:"latest"`
	Safe       uint64      `json:"safe"`
	Lag        uint64      `json:"lag"`
	Running    bool        `json:"running"`
	LastRunAt  *time.Time  `json:"last_run_at,omitempty"`
	LastError  string      `json:"last_error,omitempty"`
	LastResult *SyncResult `json:"last_result,omitempty"`
}
