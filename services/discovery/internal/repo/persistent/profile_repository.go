package persistent

import (
	"errors"

	"creatorpay/services/discovery/internal/entity"
	"creatorpay/services/discovery/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository reads creator profiles. Addresses are lowercase.
type ProfileRepository interface {
	GetByAddress(address string) (*entity.Profile, error)
	GetByAddresses(addresses []string) (map[string]*entity.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByAddress returns nil without error when no profile exists.
func (r *profileRepository) GetByAddress(address string) (*entity.Profile, error) {
	var profileModel model.CreatorProfileModel
	err := r.db.Where("address = ?", address).First(&profileModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToProfileEntity(&profileModel), nil
}

func (r *profileRepository) GetByAddresses(addresses []string) (map[string]*entity.Profile, error) {
	profiles := make(map[string]*entity.Profile, len(addresses))
	if len(addresses) == 0 {
		return profiles, nil
	}

	var profileModels []model.CreatorProfileModel
	if err := r.db.Where("address IN ?", addresses).Find(&profileModels).Error; err != nil {
		return nil, err
	}
	for i := range profileModels {
		profiles[profileModels[i].Address] = ToProfileEntity(&profileModels[i])
	}
	return profiles, nil
}
