package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/reconcile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	*baseRepository
	category *CategoryRepository
}

type SaveResult struct {
	ApplicationID string         `json:"applicationId"`
	TotalScore    awarding.Score `json:"totalScore"`

	// RemovedPaths are the stored paths of attachment rows pruned by this
	// save. The caller hands them to the cleanup queue after commit;
	// physical deletion is never part of the transaction.
	RemovedPaths []string `json:"-"`
}

// lockRow adds a FOR UPDATE clause on dialects that have row locks. SQLite
// serializes writers on its own.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// validateSubmission rejects malformed payloads before the transaction is
// opened. Anything the reconciler or catalog would reject later that can be
// caught here, is caught here.
func validateSubmission(batchId string, materials []reconcile.MaterialInput) error {
	if batchId == "" {
		return &ValidationError{Field: "batchId", Reason: "must not be empty"}
	}
	if len(materials) == 0 {
		return &ValidationError{Field: "materials", Reason: "must not be empty"}
	}

	seen := make(map[reconcile.MaterialKey]bool, len(materials))
	for i, m := range materials {
		if m.CategoryID == "" || m.ItemID == "" {
			return &ValidationError{Field: fmt.Sprintf("materials[%d]", i), Reason: "categoryId and itemId are required"}
		}
		if !m.AwardLevel.Valid() {
			return &ValidationError{Field: fmt.Sprintf("materials[%d].awardLevel", i), Reason: fmt.Sprintf("unknown level %q", m.AwardLevel)}
		}
		if !m.AwardGrade.Valid() {
			return &ValidationError{Field: fmt.Sprintf("materials[%d].awardGrade", i), Reason: fmt.Sprintf("unknown grade %q", m.AwardGrade)}
		}
		if m.AwardType != "" && !m.AwardType.Valid() {
			return &ValidationError{Field: fmt.Sprintf("materials[%d].awardType", i), Reason: fmt.Sprintf("unknown award type %q", m.AwardType)}
		}

		key := m.Key()
		if seen[key] {
			return &ValidationError{Field: "materials", Reason: (&reconcile.DuplicateMaterialError{Key: key}).Error()}
		}
		seen[key] = true
	}

	return nil
}

// Save creates or rewrites the application of (userId, batchId) from the
// submitted material list, inside one transaction. The persisted materials
// and attachments are reconciled against the submission rather than replaced,
// every score is re-resolved from the rubric, and the aggregated total is
// written back together with a refreshed submission time. The application
// row is locked FOR UPDATE so concurrent resubmissions for the same pair
// serialize.
func (ar *ApplicationRepository) Save(ctx context.Context, tx *gorm.DB, userId, batchId string, materials []reconcile.MaterialInput) (*SaveResult, error) {
	ar.logger.Debugf("Save application for user: %s batch: %s with %d materials \n", userId, batchId, len(materials))

	if userId == "" {
		return nil, &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if err := validateSubmission(batchId, materials); err != nil {
		return nil, err
	}

	db := ar.getDB(tx)
	result := &SaveResult{}

	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		app, err := ar.lockOrCreate(ctx, tx, userId, batchId)
		if err != nil {
			return err
		}

		var existing []model.MaterialEntry
		if err := tx.WithContext(ctx).Model(&model.MaterialEntry{}).
			Preload("Attachments").
			Where("application_id = ?", app.ID).
			Order("created_at").
			Find(&existing).Error; err != nil {
			return err
		}

		plan, err := reconcile.Materials(app.ID, existing, materials)
		if err != nil {
			var dup *reconcile.DuplicateMaterialError
			if errors.As(err, &dup) {
				return &ValidationError{Field: "materials", Reason: dup.Error()}
			}
			return err
		}

		for _, m := range materials {
			ok, err := ar.category.ItemExists(ctx, tx, m.CategoryID, m.ItemID)
			if err != nil {
				return err
			}
			if !ok {
				return &ValidationError{Field: "materials", Reason: fmt.Sprintf("item %s does not belong to category %s", m.ItemID, m.CategoryID)}
			}
		}

		itemIds := make([]string, 0, len(materials))
		for _, m := range materials {
			itemIds = append(itemIds, m.ItemID)
		}
		tables, err := ar.category.GetRubricTables(ctx, tx, itemIds)
		if err != nil {
			return err
		}

		attachmentsByMaterial := make(map[string][]model.Attachment, len(existing))
		for _, entry := range existing {
			attachmentsByMaterial[entry.ID] = entry.Attachments
		}

		final := make([]awarding.ScoredMaterial, 0, len(plan.Updates)+len(plan.Inserts))

		for _, change := range plan.Updates {
			entry := change.Entry
			entry.Score = tables[entry.ItemID].Resolve(entry.AwardLevel, entry.AwardGrade, entry.AwardType)

			if err := tx.WithContext(ctx).Model(&model.MaterialEntry{}).
				Where("id = ?", entry.ID).
				Select("award_level", "award_grade", "award_type", "score").
				Updates(&entry).Error; err != nil {
				return err
			}

			removed, err := ar.applyAttachmentPlan(ctx, tx, entry.ID, attachmentsByMaterial[entry.ID], change.Files)
			if err != nil {
				return err
			}
			result.RemovedPaths = append(result.RemovedPaths, removed...)

			final = append(final, awarding.ScoredMaterial{CategoryID: entry.CategoryID, Score: entry.Score})
		}

		for _, change := range plan.Inserts {
			entry := change.Entry
			entry.Score = tables[entry.ItemID].Resolve(entry.AwardLevel, entry.AwardGrade, entry.AwardType)

			if err := tx.WithContext(ctx).Model(&model.MaterialEntry{}).Create(&entry).Error; err != nil {
				return err
			}

			removed, err := ar.applyAttachmentPlan(ctx, tx, entry.ID, nil, change.Files)
			if err != nil {
				return err
			}
			result.RemovedPaths = append(result.RemovedPaths, removed...)

			final = append(final, awarding.ScoredMaterial{CategoryID: entry.CategoryID, Score: entry.Score})
		}

		for _, entry := range plan.Deletes {
			for _, att := range attachmentsByMaterial[entry.ID] {
				result.RemovedPaths = append(result.RemovedPaths, att.StoredPath)
			}
			if err := tx.WithContext(ctx).Where("material_entry_id = ?", entry.ID).Delete(&model.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.WithContext(ctx).Where("id = ?", entry.ID).Delete(&model.MaterialEntry{}).Error; err != nil {
				return err
			}
		}

		rules, err := ar.category.GetRules(ctx, tx)
		if err != nil {
			return err
		}
		summary := awarding.Aggregate(final, rules)

		now := time.Now()
		if err := tx.WithContext(ctx).Model(&model.Application{}).
			Where("id = ?", app.ID).
			Updates(map[string]any{
				"total_score":  summary.Total,
				"submitted_at": &now,
			}).Error; err != nil {
			return err
		}

		result.ApplicationID = app.ID
		result.TotalScore = summary.Total
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return result, nil
}

// lockOrCreate fetches the (user, batch) application row under a FOR UPDATE
// lock, creating it when absent. Existing rows are reset to pending with
// review fields cleared; approved rows refuse the save.
func (ar *ApplicationRepository) lockOrCreate(ctx context.Context, tx *gorm.DB, userId, batchId string) (*model.Application, error) {
	var app model.Application
	err := lockRow(tx).WithContext(ctx).Model(&model.Application{}).
		Where("user_id = ? AND batch_id = ?", userId, batchId).
		First(&app).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		app = model.Application{
			UserID:  userId,
			BatchID: batchId,
			Status:  constant.ApplicationStatusPending,
		}
		if err := tx.WithContext(ctx).Model(&model.Application{}).Create(&app).Error; err != nil {
			return nil, err
		}
		return &app, nil
	}
	if err != nil {
		return nil, err
	}

	if app.Status == constant.ApplicationStatusApproved {
		return nil, ErrApplicationLocked
	}

	if err := tx.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", app.ID).
		Updates(map[string]any{
			"status":         constant.ApplicationStatusPending,
			"review_comment": nil,
			"reviewer_id":    nil,
			"reviewed_at":    nil,
		}).Error; err != nil {
		return nil, err
	}
	app.Status = constant.ApplicationStatusPending

	return &app, nil
}

// applyAttachmentPlan reconciles one material's attachment rows. A nil files
// pointer means the submission said nothing about this material's files, so
// the rows stay untouched.
func (ar *ApplicationRepository) applyAttachmentPlan(ctx context.Context, tx *gorm.DB, materialEntryId string, existing []model.Attachment, files *[]reconcile.FileRef) ([]string, error) {
	if files == nil {
		return nil, nil
	}

	plan := reconcile.Attachments(materialEntryId, existing, *files)

	if len(plan.Inserts) > 0 {
		if err := tx.WithContext(ctx).Model(&model.Attachment{}).Create(&plan.Inserts).Error; err != nil {
			return nil, err
		}
	}

	removed := make([]string, 0, len(plan.Deletes))
	for _, att := range plan.Deletes {
		if err := tx.WithContext(ctx).Where("id = ?", att.ID).Delete(&model.Attachment{}).Error; err != nil {
			return nil, err
		}
		removed = append(removed, att.StoredPath)
	}

	return removed, nil
}

// Review records an admin decision. Rejections require a comment; approved
// applications are terminal and cannot be re-reviewed.
func (ar *ApplicationRepository) Review(ctx context.Context, tx *gorm.DB, applicationId string, status constant.ApplicationStatus, comment, reviewerId string) error {
	ar.logger.Debugf("Review application: %s status: %s reviewer: %s \n", applicationId, status, reviewerId)

	if !status.ReviewDecision() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a review decision", status)}
	}
	if status == constant.ApplicationStatusRejected && strings.TrimSpace(comment) == "" {
		return ErrReviewCommentRequired
	}

	db := ar.getDB(tx)
	return ar.withTx(db, func(tx *gorm.DB) error {
		var app model.Application
		if err := lockRow(tx).WithContext(ctx).Model(&model.Application{}).
			Where("id = ?", applicationId).
			First(&app).Error; err != nil {
			return err
		}

		if app.Status == constant.ApplicationStatusApproved {
			return ErrApplicationLocked
		}

		now := time.Now()
		return tx.WithContext(ctx).Model(&model.Application{}).
			Where("id = ?", app.ID).
			Updates(map[string]any{
				"status":         status,
				"review_comment": comment,
				"reviewer_id":    reviewerId,
				"reviewed_at":    &now,
			}).Error
	})
}

// ApplicationDetail couples an application with the category score breakdown
// computed by the shared aggregator.
type ApplicationDetail struct {
	Application    model.Application        `json:"application"`
	CategoryScores []awarding.CategoryScore `json:"categoryScores"`
	Total          awarding.Score           `json:"total"`
}

// GetDetail loads one application with its materials, attachments and the
// per-category score breakdown. A non-empty requestingUserId restricts the
// lookup to that user's own application.
func (ar ApplicationRepository) GetDetail(ctx context.Context, tx *gorm.DB, applicationId, requestingUserId string) (*ApplicationDetail, error) {
	ar.logger.Debugf("Get application detail: %s (requested by: %s) \n", applicationId, requestingUserId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Application{}).
		Preload("User").
		Preload("Batch").
		Preload("Materials", func(db *gorm.DB) *gorm.DB { return db.Order("material_entries.created_at") }).
		Preload("Materials.Category").
		Preload("Materials.Item").
		Preload("Materials.Attachments").
		Where("id = ?", applicationId)
	if requestingUserId != "" {
		query = query.Where("user_id = ?", requestingUserId)
	}

	var app model.Application
	if err := query.First(&app).Error; err != nil {
		return nil, err
	}

	rules, err := ar.category.GetRules(ctx, tx)
	if err != nil {
		return nil, err
	}
	summary := summarize(app.Materials, rules)

	return &ApplicationDetail{
		Application:    app,
		CategoryScores: summary.PerCategory,
		Total:          summary.Total,
	}, nil
}

// summarize funnels persisted material rows through the shared aggregator.
// Save, detail, ranking and export all go through here.
func summarize(materials []model.MaterialEntry, rules []awarding.CategoryRule) awarding.Summary {
	scored := make([]awarding.ScoredMaterial, 0, len(materials))
	for _, m := range materials {
		scored = append(scored, awarding.ScoredMaterial{CategoryID: m.CategoryID, Score: m.Score})
	}
	return awarding.Aggregate(scored, rules)
}

func (ar ApplicationRepository) GetByUserAndBatch(ctx context.Context, tx *gorm.DB, userId, batchId string) (*model.Application, error) {
	ar.logger.Debugf("Get application for user: %s batch: %s \n", userId, batchId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var app model.Application
	if err := db.WithContext(ctx).Model(&model.Application{}).
		Where("user_id = ? AND batch_id = ?", userId, batchId).
		First(&app).Error; err != nil {
		return nil, err
	}

	return &app, nil
}

func (ar ApplicationRepository) ListByUser(ctx context.Context, tx *gorm.DB, userId string) ([]model.Application, error) {
	ar.logger.Debugf("List applications for user: %s \n", userId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var apps []model.Application
	if err := db.WithContext(ctx).Model(&model.Application{}).
		Preload("Batch").
		Where("user_id = ?", userId).
		Order("submitted_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// ListAll returns every application, optionally filtered by status, newest
// submission first. Admin listing view.
func (ar ApplicationRepository) ListAll(ctx context.Context, tx *gorm.DB, status constant.ApplicationStatus) ([]model.Application, error) {
	ar.logger.Debugf("List all applications with status filter: %q \n", status)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Application{}).
		Preload("User").
		Preload("Batch").
		Preload("Materials")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var apps []model.Application
	if err := query.Order("submitted_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// Delete removes an application with all of its materials and attachment
// rows, returning the stored paths so the caller can queue physical cleanup.
func (ar *ApplicationRepository) Delete(ctx context.Context, tx *gorm.DB, applicationId string) ([]string, error) {
	ar.logger.Debugf("Delete application: %s \n", applicationId)

	db := ar.getDB(tx)
	var removedPaths []string

	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		var paths []string
		if err := tx.WithContext(ctx).Model(&model.Attachment{}).
			Joins("JOIN material_entries ON material_entries.id = attachments.material_entry_id").
			Where("material_entries.application_id = ?", applicationId).
			Pluck("attachments.stored_path", &paths).Error; err != nil {
			return err
		}

		if err := tx.WithContext(ctx).
			Where("material_entry_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).Model(&model.MaterialEntry{}).Select("id").Where("application_id = ?", applicationId),
			).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("application_id = ?", applicationId).Delete(&model.MaterialEntry{}).Error; err != nil {
			return err
		}

		result := tx.WithContext(ctx).Where("id = ?", applicationId).Delete(&model.Application{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		removedPaths = paths
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return removedPaths, nil
}

type ApplicationStats struct {
	TotalApplications   int64 `json:"totalApplications"`
	PendingApplications int64 `json:"pendingApplications"`
	TotalCategories     int64 `json:"totalCategories"`
	TotalItems          int64 `json:"totalItems"`
}

func (ar ApplicationRepository) GetStats(ctx context.Context, tx *gorm.DB) (*ApplicationStats, error) {
	ar.logger.Debug("Get application stats")

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var stats ApplicationStats
	if err := db.WithContext(ctx).Model(&model.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&model.Application{}).Where("status = ?", constant.ApplicationStatusPending).Count(&stats.PendingApplications).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&model.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&model.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// StudentStatsRow is one student with their submission state for a batch.
// Application columns are nil when the student has not applied.
type StudentStatsRow struct {
	UserID      string                      `json:"userId"`
	Username    string                      `json:"username"`
	RealName    string                      `json:"realName"`
	StudentID   string                      `json:"studentId"`
	Class       string                      `json:"class"`
	Major       string                      `json:"major"`
	Submitted   bool                        `json:"submitted"`
	Status      *constant.ApplicationStatus `json:"status"`
	TotalScore  *awarding.Score             `json:"totalScore"`
	SubmittedAt *time.Time                  `json:"submittedAt"`
	BatchName   *string                     `json:"batchName"`
}

type ClassStats struct {
	Total        int64 `json:"total"`
	Submitted    int64 `json:"submitted"`
	NotSubmitted int64 `json:"notSubmitted"`
}

type StudentStats struct {
	TotalStudents        int64                  `json:"totalStudents"`
	SubmittedStudents    int64                  `json:"submittedStudents"`
	NotSubmittedStudents int64                  `json:"notSubmittedStudents"`
	ByClass              map[string]*ClassStats `json:"byClass"`
	Students             []StudentStatsRow      `json:"students"`
}

// GetStudentStats lists every student with their submission state, optionally
// scoped to one batch and one class. The batch filter lives in the join
// condition so students without an application still produce a row.
func (ar ApplicationRepository) GetStudentStats(ctx context.Context, tx *gorm.DB, batchId, class string) (*StudentStats, error) {
	ar.logger.Debugf("Get student stats batch: %s class: %s \n", batchId, class)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.User{}).
		Select("users.id AS user_id, users.username, users.real_name, users.student_id, users.class, users.major, " +
			"applications.id IS NOT NULL AS submitted, applications.status, applications.total_score, applications.submitted_at, " +
			"batches.name AS batch_name")
	if batchId != "" {
		query = query.Joins("LEFT JOIN applications ON applications.user_id = users.id AND applications.batch_id = ?", batchId)
	} else {
		query = query.Joins("LEFT JOIN applications ON applications.user_id = users.id")
	}
	query = query.Joins("LEFT JOIN batches ON batches.id = applications.batch_id").
		Where("users.role = ?", constant.UserRoleStudent)
	if class != "" {
		query = query.Where("users.class = ?", class)
	}

	var rows []StudentStatsRow
	if err := query.Order("users.class, users.student_id, users.real_name").Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := StudentStats{
		ByClass:  map[string]*ClassStats{},
		Students: rows,
	}
	for _, row := range rows {
		stats.TotalStudents++
		cs := stats.ByClass[row.Class]
		if cs == nil {
			cs = &ClassStats{}
			stats.ByClass[row.Class] = cs
		}
		cs.Total++
		if row.Submitted {
			stats.SubmittedStudents++
			cs.Submitted++
		} else {
			stats.NotSubmittedStudents++
			cs.NotSubmitted++
		}
	}

	return &stats, nil
}
