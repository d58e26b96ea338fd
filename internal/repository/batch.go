package repository

import (
	"context"

	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"gorm.io/gorm"
)

type BatchRepository struct {
	*baseRepository
}

func (br BatchRepository) List(ctx context.Context, tx *gorm.DB) ([]model.Batch, error) {
	br.logger.Debug("List batches")

	db := br.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var batches []model.Batch
	if err := db.WithContext(ctx).Model(&model.Batch{}).Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

// ListOpen returns the batches currently accepting submissions, for the
// student-facing batch picker.
func (br BatchRepository) ListOpen(ctx context.Context, tx *gorm.DB) ([]model.Batch, error) {
	br.logger.Debug("List open batches")

	db := br.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var batches []model.Batch
	if err := db.WithContext(ctx).Model(&model.Batch{}).
		Where("status = ?", constant.BatchStatusOpen).
		Order("created_at DESC").
		Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

func (br BatchRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Batch, error) {
	br.logger.Debugf("Get batch by id: %s \n", id)

	db := br.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var batch model.Batch
	if err := db.WithContext(ctx).Model(&model.Batch{}).Where("id = ?", id).First(&batch).Error; err != nil {
		return nil, err
	}

	return &batch, nil
}

func (br *BatchRepository) Create(ctx context.Context, tx *gorm.DB, batch *model.Batch) error {
	br.logger.Debugf("Create batch: %v \n", batch)

	if batch.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if batch.Status == "" {
		batch.Status = constant.BatchStatusOpen
	}

	db := br.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.Batch{}).Create(batch).Error
}

func (br *BatchRepository) Update(ctx context.Context, tx *gorm.DB, batch *model.Batch) error {
	br.logger.Debugf("Update batch: %v \n", batch)

	db := br.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Batch{}).
		Where("id = ?", batch.ID).
		Select("name", "description", "status", "start_date", "end_date").
		Updates(batch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete refuses to remove a batch that already has applications.
func (br *BatchRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	br.logger.Debugf("Delete batch: %s \n", id)

	db := br.getDB(tx)
	return br.withTx(db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.Application{}).Where("batch_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBatchHasApplications
		}

		result := tx.WithContext(ctx).Where("id = ?", id).Delete(&model.Batch{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
