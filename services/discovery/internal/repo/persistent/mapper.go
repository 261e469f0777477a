package persistent

import (
	"creatorpay/services/discovery/internal/entity"
	"creatorpay/services/discovery/internal/model"
)

func ToProfileEntity(m *model.CreatorProfileModel) *entity.Profile {
	return &entity.Profile{
		Address:    m.Address,
		Name:       m.Name,
		NameSource: m.NameSource,
		AvatarURL:  m.AvatarURL,
		UpdatedAt:  m.UpdatedAt,
	}
}
