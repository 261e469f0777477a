package persistent

import (
	"strings"

	"creatorpay/services/subscription/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository resolves stored creator names.
type ProfileRepository interface {
	GetNames(addresses []string) (map[string]string, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetNames maps lowercase address to name for the given addresses that have one.
func (r *profileRepository) GetNames(addresses []string) (map[string]string, error) {
	names := make(map[string]string, len(addresses))
	if len(addresses) == 0 {
		return names, nil
	}

	var profileModels []model.CreatorProfileModel
	err := r.db.Select("address", "name").
		Where("address IN ? AND name <> ''", addresses).
		Find(&profileModels).Error
	if err != nil {
		return nil, err
	}
	for _, p := range profileModels {
		names[p.Address] = strings.TrimSpace(p.Name)
	}
	return names, nil
}
