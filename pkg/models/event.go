package models

import "time"

type ChainEventKind string

const (
	EventCreatorRegistered  ChainEventKind = "creator_registered"
	EventSubscribed         ChainEventKind = "subscribed"
	EventCreatorNameUpdated ChainEventKind = "creator_name_updated"
)

// ChainEvent is the decoded form of a contract log as it travels over the queue.
type ChainEvent struct {
	Kind          ChainEventKind `json:"kind"`
	Creator       string         `json:"creator"`
	User          string         `json:"user,omitempty"`
	Fee           string         `json:"fee,omitempty"`
	PlatformShare uint64         `json:"platform_share,omitempty"`
	ExpiresAt     int64          `json:"expires_at,omitempty"`
	Name          string         `json:"name,omitempty"`
	BlockNumber   uint64         `json:"block_number"`
	TxHash        string         `json:"tx_hash"`
	LogIndex      uint           `json:"log_index"`
	ObservedAt    time.Time      `json:"observed_at"`
}
