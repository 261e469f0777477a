package model

import "time"

type CreatorProfileModel struct {
	Address    string    `gorm:"type:varchar(42);primary_key" json:"address"`
	Name       string    `gorm:"type:varchar(64);not null;default:''" json:"name"`
	NameSource string    `gorm:"type:varchar(16);not null;default:'profile'" json:"name_source"`
	AvatarURL  string    `gorm:"type:text;not null;default:''" json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CreatorProfileModel) TableName() string {
	return "creator_profiles"
}
