package persistent

import (
	"creatorpay/services/creator/internal/entity"
	"creatorpay/services/creator/internal/model"

	"gorm.io/gorm"
)

// ActivityRepository reads indexed Subscribed events.
type ActivityRepository interface {
	ListByCreator(creator string, limit int) ([]*entity.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) ListByCreator(creator string, limit int) ([]*entity.Activity, error) {
	var eventModels []model.SubscriptionEventModel
	err := r.db.Where("creator = ?", creator).
		Order("block_number DESC, log_index DESC").
		Limit(limit).
		Find(&eventModels).Error
	if err != nil {
		return nil, err
	}

	activities := make([]*entity.Activity, len(eventModels))
	for i := range eventModels {
		activities[i] = ToActivityEntity(&eventModels[i])
	}
	return activities, nil
}
