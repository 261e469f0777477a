package model

import "time"

type WalletAccountModel struct {
	Address     string     `gorm:"type:varchar(42);primary_key" json:"address"`
	Role        string     `gorm:"type:varchar(16);not null" json:"role"`
	LoginCount  int        `gorm:"not null" json:"login_count"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (WalletAccountModel) TableName() string {
	return "wallet_accounts"
}
