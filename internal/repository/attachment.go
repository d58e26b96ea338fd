package repository

import (
	"context"

	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	*baseRepository
}

func (ar AttachmentRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Attachment, error) {
	ar.logger.Debugf("Get attachment by id: %s \n", id)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var attachment model.Attachment
	if err := db.WithContext(ctx).Model(&model.Attachment{}).Where("id = ?", id).First(&attachment).Error; err != nil {
		return nil, err
	}

	return &attachment, nil
}

// GetByIdForUser resolves an attachment only when it belongs to one of the
// given user's applications. Download authorization check for students.
func (ar AttachmentRepository) GetByIdForUser(ctx context.Context, tx *gorm.DB, id, userId string) (*model.Attachment, error) {
	ar.logger.Debugf("Get attachment: %s for user: %s \n", id, userId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var attachment model.Attachment
	if err := db.WithContext(ctx).Model(&model.Attachment{}).
		Joins("JOIN material_entries ON material_entries.id = attachments.material_entry_id").
		Joins("JOIN applications ON applications.id = material_entries.application_id").
		Where("attachments.id = ? AND applications.user_id = ?", id, userId).
		First(&attachment).Error; err != nil {
		return nil, err
	}

	return &attachment, nil
}

func (ar AttachmentRepository) ListByMaterial(ctx context.Context, tx *gorm.DB, materialEntryId string) ([]model.Attachment, error) {
	ar.logger.Debugf("List attachments for material: %s \n", materialEntryId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var attachments []model.Attachment
	if err := db.WithContext(ctx).Model(&model.Attachment{}).
		Where("material_entry_id = ?", materialEntryId).
		Order("created_at").
		Find(&attachments).Error; err != nil {
		return nil, err
	}

	return attachments, nil
}
