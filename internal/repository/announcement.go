package repository

import (
	"context"

	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	*baseRepository
}

func (ar AnnouncementRepository) List(ctx context.Context, tx *gorm.DB, page, pageSize int) ([]model.Announcement, int64, error) {
	ar.logger.Debugf("List announcements page: %d pageSize: %d \n", page, pageSize)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constant.DefaultPageSize
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.Announcement{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var announcements []model.Announcement
	if err := db.WithContext(ctx).Model(&model.Announcement{}).
		Preload("Author").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&announcements).Error; err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

func (ar AnnouncementRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Announcement, error) {
	ar.logger.Debugf("Get announcement by id: %s \n", id)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var announcement model.Announcement
	if err := db.WithContext(ctx).Model(&model.Announcement{}).Preload("Author").Where("id = ?", id).First(&announcement).Error; err != nil {
		return nil, err
	}

	return &announcement, nil
}

func (ar *AnnouncementRepository) Create(ctx context.Context, tx *gorm.DB, announcement *model.Announcement) error {
	ar.logger.Debugf("Create announcement: %s \n", announcement.Title)

	if announcement.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Model(&model.Announcement{}).Create(announcement).Error
}

func (ar *AnnouncementRepository) Update(ctx context.Context, tx *gorm.DB, announcement *model.Announcement) error {
	ar.logger.Debugf("Update announcement: %s \n", announcement.ID)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.Announcement{}).
		Where("id = ?", announcement.ID).
		Select("title", "content").
		Updates(announcement)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (ar *AnnouncementRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	ar.logger.Debugf("Delete announcement: %s \n", id)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.Announcement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
