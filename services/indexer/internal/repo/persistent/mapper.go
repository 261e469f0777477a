package persistent

import (
	"creatorpay/services/indexer/internal/entity"
	"creatorpay/services/indexer/internal/model"

	"github.com/google/uuid"
)

// NameSourceChain marks profile names copied from CreatorNameUpdated logs.
const NameSourceChain = "chain"

func ToRegistrationModel(r *entity.Registration) *model.CreatorRegistrationModel {
	return &model.CreatorRegistrationModel{
		ID:            uuid.New().String(),
		Creator:       r.Creator,
		Fee:           r.Fee,
		PlatformShare: r.PlatformShare,
		BlockNumber:   r.BlockNumber,
		TxHash:        r.TxHash,
		LogIndex:      r.LogIndex,
	}
}

func ToSubscriptionModel(s *entity.Subscription) *model.SubscriptionEventModel {
	amount := s.Amount
	if amount == "" {
		amount = "0"
	}
	return &model.SubscriptionEventModel{
		ID:          uuid.New().String(),
		Subscriber:  s.Subscriber,
		Creator:     s.Creator,
		ExpiresAt:   s.ExpiresAt,
		Amount:      amount,
		GasLimit:    s.GasLimit,
		BlockNumber: s.BlockNumber,
		BlockTime:   s.BlockTime,
		TxHash:      s.TxHash,
		LogIndex:    s.LogIndex,
	}
}

func ToChainProfileModel(n *entity.NameUpdate) *model.CreatorProfileModel {
	return &model.CreatorProfileModel{
		Address:    n.Creator,
		Name:       n.Name,
		NameSource: NameSourceChain,
	}
}
