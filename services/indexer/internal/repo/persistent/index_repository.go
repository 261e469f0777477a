package persistent

import (
	"errors"
	"time"

	"creatorpay/services/indexer/internal/entity"
	"creatorpay/services/indexer/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IndexRepository interface {
	GetCursor(name string) (uint64, bool, error)
	Apply(name string, batch *entity.Batch) error
}

type indexRepository struct {
	db *gorm.DB
}

func NewIndexRepository(db *gorm.DB) IndexRepository {
	return &indexRepository{db: db}
}

func (r *indexRepository) GetCursor(name string) (uint64, bool, error) {
	var cursor model.IndexerCursorModel
	if err := r.db.Where("name = ?", name).First(&cursor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return cursor.BlockNumber, true, nil
}

// Apply stores the batch rows and moves the cursor to batch.To in one
// transaction. Rows already present are left untouched.
func (r *indexRepository) Apply(name string, batch *entity.Batch) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ignore := clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "log_index"}},
			DoNothing: true,
		}

		for _, reg := range batch.Registrations {
			if err := tx.Clauses(ignore).Create(ToRegistrationModel(reg)).Error; err != nil {
				return err
			}
		}

		for _, sub := range batch.Subscriptions {
			if err := tx.Clauses(ignore).Create(ToSubscriptionModel(sub)).Error; err != nil {
				return err
			}
		}

		// Names set through the profile API win over names seen on chain.
		for _, n := range batch.Names {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "name_source", "updated_at"}),
				Where: clause.Where{Exprs: []clause.Expression{
					clause.Expr{SQL: "creator_profiles.name_source = ? OR creator_profiles.name = ''", Vars: []interface{}{NameSourceChain}},
				}},
			}).Create(ToChainProfileModel(n)).Error
			if err != nil {
				return err
			}
		}

		cursor := &model.IndexerCursorModel{Name: name, BlockNumber: batch.To, UpdatedAt: time.Now()}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"block_number", "updated_at"}),
		}).Create(cursor).Error
	})
}
