package persistent

import (
	"errors"

	"creatorpay/services/notification/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	GetCreatorName(address string) (string, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// GetCreatorName returns the profile name of address, or "" when none is stored.
func (r *notificationRepository) GetCreatorName(address string) (string, error) {
	var profileModel model.CreatorProfileModel
	err := r.db.Select("address", "name").Where("address = ?", address).First(&profileModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return profileModel.Name, nil
}
