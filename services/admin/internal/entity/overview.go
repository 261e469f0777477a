package entity

import "creatorpay/pkg/models"

type CreatorEarnings struct {
	Address         string        `json:"address"`
	Name            string        `json:"name"`
	PlatformShare   uint64        `json:"platform_share"`
	PlatformBalance models.Amount `json:"platform_balance"`
	CreatorBalance  models.Amount `json:"creator_balance"`
}

type Overview struct {
	Owner                string             `json:"owner"`
	Creators             []*CreatorEarnings `json:"creators"`
	CreatorCount         int                `json:"creator_count"`
	TotalPlatformBalance models.Amount      `json:"total_platform_balance"`
	TotalCreatorBalance  models.Amount      `json:"total_creator_balance"`
	AverageShare         string             `json:"average_share"`
	Indexed              *IndexedStats      `json:"indexed,omitempty"`
}

// IndexedStats summarises what the indexer has stored so far.
type IndexedStats struct {
	Registrations int64         `json:"registrations"`
	Subscriptions int64         `json:"subscriptions"`
	Volume        models.Amount `json:"volume"`
}
