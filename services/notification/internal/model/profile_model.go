package model

type CreatorProfileModel struct {
	Address string `gorm:"type:varchar(42);primary_key" json:"address"`
	Name    string `gorm:"type:varchar(64);not null" json:"name"`
}

func (CreatorProfileModel) TableName() string {
	return "creator_profiles"
}
