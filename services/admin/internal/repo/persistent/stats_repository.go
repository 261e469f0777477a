package persistent

import (
	"math/big"
	"strings"

	"creatorpay/pkg/models"
	"creatorpay/services/admin/internal/entity"
	"creatorpay/services/admin/internal/model"

	"gorm.io/gorm"
)

type StatsRepository interface {
	GetIndexedStats() (*entity.IndexedStats, error)
	GetNames(addresses []string) (map[string]string, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetIndexedStats() (*entity.IndexedStats, error) {
	stats := &entity.IndexedStats{}

	if err := r.db.Model(&model.CreatorRegistrationModel{}).Count(&stats.Registrations).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.SubscriptionEventModel{}).Count(&stats.Subscriptions).Error; err != nil {
		return nil, err
	}

	var volume string
	if err := r.db.Model(&model.SubscriptionEventModel{}).
		Select("COALESCE(SUM(amount), 0)::text").
		Scan(&volume).Error; err != nil {
		return nil, err
	}
	wei, ok := new(big.Int).SetString(volume, 10)
	if !ok {
		wei = new(big.Int)
	}
	stats.Volume = models.NewAmount(wei)

	return stats, nil
}

func (r *statsRepository) GetNames(addresses []string) (map[string]string, error) {
	names := make(map[string]string, len(addresses))
	if len(addresses) == 0 {
		return names, nil
	}

	var profileModels []model.CreatorProfileModel
	if err := r.db.Where("address IN ? AND name <> ''", addresses).Find(&profileModels).Error; err != nil {
		return nil, err
	}
	for _, p := range profileModels {
		names[p.Address] = strings.TrimSpace(p.Name)
	}
	return names, nil
}
