package persistent

import (
	"errors"
	"time"

	"creatorpay/services/creator/internal/entity"
	"creatorpay/services/creator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository stores creator-chosen names and avatars keyed by
// lowercase wallet address.
type ProfileRepository interface {
	GetByAddress(address string) (*entity.Profile, error)
	SaveName(address, name string) error
	ClearName(address string) error
	ListNamed() ([]*entity.Profile, error)
	SaveAvatar(address, avatarURL string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

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

func (r *profileRepository) SaveName(address, name string) error {
	profileModel := &model.CreatorProfileModel{
		Address:    address,
		Name:       name,
		NameSource: string(entity.NameSourceProfile),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "name_source", "updated_at"}),
	}).Create(profileModel).Error
}

func (r *profileRepository) ClearName(address string) error {
	return r.db.Model(&model.CreatorProfileModel{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{"name": "", "updated_at": time.Now()}).Error
}

func (r *profileRepository) ListNamed() ([]*entity.Profile, error) {
	var profileModels []model.CreatorProfileModel
	if err := r.db.Where("name <> ''").Order("address").Find(&profileModels).Error; err != nil {
		return nil, err
	}

	profiles := make([]*entity.Profile, len(profileModels))
	for i := range profileModels {
		profiles[i] = ToProfileEntity(&profileModels[i])
	}
	return profiles, nil
}

func (r *profileRepository) SaveAvatar(address, avatarURL string) error {
	profileModel := &model.CreatorProfileModel{
		Address:    address,
		NameSource: string(entity.NameSourceProfile),
		AvatarURL:  avatarURL,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"avatar_url", "updated_at"}),
	}).Create(profileModel).Error
}
