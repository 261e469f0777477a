package persistent

import (
	"math/big"
	"time"

	"creatorpay/pkg/models"
	"creatorpay/services/creator/internal/entity"
	"creatorpay/services/creator/internal/model"
)

func ToProfileEntity(m *model.CreatorProfileModel) *entity.Profile {
	return &entity.Profile{
		Address:    m.Address,
		Name:       m.Name,
		NameSource: entity.NameSource(m.NameSource),
		AvatarURL:  m.AvatarURL,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToActivityEntity(m *model.SubscriptionEventModel) *entity.Activity {
	amount, ok := new(big.Int).SetString(m.Amount, 10)
	if !ok {
		amount = new(big.Int)
	}
	return &entity.Activity{
		Subscriber:  m.Subscriber,
		ExpiresAt:   time.Unix(m.ExpiresAt, 0).UTC(),
		BlockNumber: m.BlockNumber,
		BlockTime:   m.BlockTime,
		TxHash:      m.TxHash,
		LogIndex:    m.LogIndex,
		AmountPaid:  models.NewAmount(amount),
		GasLimit:    m.GasLimit,
	}
}
