package entity

import "time"

type NotificationType string

const (
	TypeNewSubscriber      NotificationType = "new_subscriber"
	TypeSubscriptionActive NotificationType = "subscription_active"
	TypeCreatorRegistered  NotificationType = "creator_registered"
)

// Notification is a message for one wallet address.
type Notification struct {
	ID        string                 `json:"id"`
	Recipient string                 `json:"recipient"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      NotificationType       `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
	Read      bool                   `json:"read"`
}

type Page struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64            `json:"total"`
	Unread        int              `json:"unread"`
}
