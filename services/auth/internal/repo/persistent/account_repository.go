package persistent

import (
	"errors"
	"time"

	"creatorpay/services/auth/internal/entity"
	"creatorpay/services/auth/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	GetByAddress(address string) (*entity.Account, error)
	RecordLogin(address, role string, at time.Time) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// GetByAddress returns nil without error for wallets that never logged in.
func (r *accountRepository) GetByAddress(address string) (*entity.Account, error) {
	var accountModel model.WalletAccountModel
	if err := r.db.Where("address = ?", address).First(&accountModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToAccountEntity(&accountModel), nil
}

func (r *accountRepository) RecordLogin(address, role string, at time.Time) error {
	accountModel := &model.WalletAccountModel{
		Address:     address,
		Role:        role,
		LoginCount:  1,
		LastLoginAt: &at,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"role":          role,
			"last_login_at": at,
			"updated_at":    at,
			"login_count":   gorm.Expr("wallet_accounts.login_count + 1"),
		}),
	}).Create(accountModel).Error
}
