package persistent

import (
	"creatorpay/services/auth/internal/entity"
	"creatorpay/services/auth/internal/model"
)

func ToAccountEntity(m *model.WalletAccountModel) *entity.Account {
	return &entity.Account{
		Address:     m.Address,
		Role:        m.Role,
		LoginCount:  m.LoginCount,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
