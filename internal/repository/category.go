package repository

import (
	"context"
	"errors"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	*baseRepository
}

func (cr CategoryRepository) List(ctx context.Context, tx *gorm.DB) ([]model.Category, error) {
	cr.logger.Debug("List categories")

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var categories []model.Category
	if err := db.WithContext(ctx).Model(&model.Category{}).Order("created_at").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// ListWithItems returns the full reference catalog: categories, their items
// and every rubric cell. Served from the rubric cache when possible; every
// admin mutation in this repository invalidates it.
func (cr CategoryRepository) ListWithItems(ctx context.Context, tx *gorm.DB) ([]model.Category, error) {
	cr.logger.Debug("List categories with items and rubric entries")

	if tx == nil {
		var cached []model.Category
		if cr.rubricCache.GetCatalog(ctx, &cached) {
			return cached, nil
		}
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var categories []model.Category
	if err := db.WithContext(ctx).Model(&model.Category{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("items.created_at") }).
		Preload("Items.RubricEntries").
		Order("created_at").
		Find(&categories).Error; err != nil {
		return nil, err
	}

	if tx == nil {
		cr.rubricCache.SetCatalog(ctx, categories)
	}

	return categories, nil
}

func (cr CategoryRepository) GetById(ctx context.Context, tx *gorm.DB, categoryId string) (*model.Category, error) {
	cr.logger.Debugf("Get category by id: %s \n", categoryId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var category model.Category
	if err := db.WithContext(ctx).Model(&model.Category{}).Where(&model.Category{BaseModel: model.BaseModel{ID: categoryId}}).First(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}

func (cr *CategoryRepository) Create(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	cr.logger.Debugf("Create category with data: %v \n", category)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Category{}).Create(category).Error; err != nil {
		return err
	}

	cr.rubricCache.Invalidate(ctx)
	return nil
}

func (cr *CategoryRepository) Update(ctx context.Context, tx *gorm.DB, category *model.Category) error {
	cr.logger.Debugf("Update category with data: %v \n", category)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Category{}).
		Where(&model.Category{BaseModel: model.BaseModel{ID: category.ID}}).
		Select("name", "description", "score_ratio", "has_score_cap").
		Updates(category).Error; err != nil {
		return err
	}

	cr.rubricCache.Invalidate(ctx)
	return nil
}

// Delete refuses to remove a category that application materials reference.
func (cr *CategoryRepository) Delete(ctx context.Context, tx *gorm.DB, categoryId string) error {
	cr.logger.Debugf("Delete category with id: %s \n", categoryId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return cr.withTx(db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.MaterialEntry{}).Where("category_id = ?", categoryId).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrReferencedByMaterials
		}

		if err := tx.WithContext(ctx).Where(&model.Category{BaseModel: model.BaseModel{ID: categoryId}}).Delete(&model.Category{}).Error; err != nil {
			return err
		}

		cr.rubricCache.Invalidate(ctx)
		return nil
	})
}

// CreateItem inserts the item and seeds its full rubric grid at score zero,
// one entry per (level, grade) pair.
func (cr *CategoryRepository) CreateItem(ctx context.Context, tx *gorm.DB, item *model.Item) error {
	cr.logger.Debugf("Create item with data: %v \n", item)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return cr.withTx(db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&model.Item{}).Create(item).Error; err != nil {
			return err
		}

		entries := make([]model.RubricEntry, 0, len(constant.AwardLevels)*len(constant.AwardGrades))
		for _, level := range constant.AwardLevels {
			for _, grade := range constant.AwardGrades {
				entries = append(entries, model.RubricEntry{
					ItemID: item.ID,
					Level:  level,
					Grade:  grade,
				})
			}
		}
		if err := tx.WithContext(ctx).Model(&model.RubricEntry{}).Create(&entries).Error; err != nil {
			return err
		}

		cr.rubricCache.Invalidate(ctx)
		return nil
	})
}

// DeleteItem refuses to remove an item that application materials reference.
func (cr *CategoryRepository) DeleteItem(ctx context.Context, tx *gorm.DB, itemId string) error {
	cr.logger.Debugf("Delete item with id: %s \n", itemId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return cr.withTx(db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.MaterialEntry{}).Where("item_id = ?", itemId).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrReferencedByMaterials
		}

		if err := tx.WithContext(ctx).Where(&model.Item{BaseModel: model.BaseModel{ID: itemId}}).Delete(&model.Item{}).Error; err != nil {
			return err
		}

		cr.rubricCache.Invalidate(ctx)
		return nil
	})
}

// UpdateRubricScore sets one cell of an item's score grid.
func (cr *CategoryRepository) UpdateRubricScore(ctx context.Context, tx *gorm.DB, itemId string, level constant.AwardLevel, grade constant.AwardGrade, baseScore int) error {
	cr.logger.Debugf("Update rubric score for item: %s level: %s grade: %s score: %d \n", itemId, level, grade, baseScore)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.RubricEntry{}).
		Where("item_id = ? AND level = ? AND grade = ?", itemId, level, grade).
		Update("base_score", baseScore)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	cr.rubricCache.Invalidate(ctx)
	return nil
}

// GetRubricTables loads the score grids for the given items keyed by item id.
// Items without configured entries yield empty tables, which resolve to zero.
func (cr CategoryRepository) GetRubricTables(ctx context.Context, tx *gorm.DB, itemIds []string) (map[string]awarding.RubricTable, error) {
	cr.logger.Debugf("Get rubric tables for items: %v \n", itemIds)

	tables := make(map[string]awarding.RubricTable, len(itemIds))
	if len(itemIds) == 0 {
		return tables, nil
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var entries []model.RubricEntry
	if err := db.WithContext(ctx).Model(&model.RubricEntry{}).Where("item_id IN (?)", itemIds).Find(&entries).Error; err != nil {
		return nil, err
	}

	for _, entry := range entries {
		table, ok := tables[entry.ItemID]
		if !ok {
			table = make(awarding.RubricTable)
			tables[entry.ItemID] = table
		}
		table[awarding.RubricKey{Level: entry.Level, Grade: entry.Grade}] = entry.BaseScore
	}

	return tables, nil
}

// GetRules returns the aggregation rules of every category, in catalog order.
func (cr CategoryRepository) GetRules(ctx context.Context, tx *gorm.DB) ([]awarding.CategoryRule, error) {
	categories, err := cr.List(ctx, tx)
	if err != nil {
		return nil, err
	}

	rules := make([]awarding.CategoryRule, 0, len(categories))
	for _, c := range categories {
		rules = append(rules, awarding.CategoryRule{
			ID:     c.ID,
			Name:   c.Name,
			Ratio:  c.ScoreRatio,
			HasCap: c.HasScoreCap,
		})
	}

	return rules, nil
}

// ItemExists reports whether an item belongs to the given category. Used to
// validate submissions against the catalog before anything is written.
func (cr CategoryRepository) ItemExists(ctx context.Context, tx *gorm.DB, categoryId, itemId string) (bool, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var item model.Item
	err := db.WithContext(ctx).Model(&model.Item{}).Where("id = ? AND category_id = ?", itemId, categoryId).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
