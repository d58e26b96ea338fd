package repository

import (
	"context"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	constant "github.com/Vathanak-H/ScholarAward/internal/constant"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"gorm.io/gorm"
)

// RankedApplication is one row of a batch ranking. Rank is 1-based and
// follows total score descending with earlier review time breaking ties.
type RankedApplication struct {
	Rank           int                      `json:"rank"`
	ApplicationID  string                   `json:"applicationId"`
	User           model.User               `json:"user"`
	TotalScore     awarding.Score           `json:"totalScore"`
	CategoryScores []awarding.CategoryScore `json:"categoryScores"`
	Application    model.Application        `json:"application"`
}

// RankBatch ranks every approved application of a batch. Each row carries the
// per-category breakdown recomputed through the shared aggregator, so the
// ranking can never disagree with the stored totals' derivation.
func (ar ApplicationRepository) RankBatch(ctx context.Context, tx *gorm.DB, batchId string) ([]RankedApplication, error) {
	ar.logger.Debugf("Rank batch: %s \n", batchId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var batch model.Batch
	if err := db.WithContext(ctx).Model(&model.Batch{}).Where("id = ?", batchId).First(&batch).Error; err != nil {
		return nil, err
	}

	var apps []model.Application
	if err := db.WithContext(ctx).Model(&model.Application{}).
		Preload("User").
		Preload("Materials").
		Where("batch_id = ? AND status = ?", batchId, constant.ApplicationStatusApproved).
		Order("total_score DESC, reviewed_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	rules, err := ar.category.GetRules(ctx, tx)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedApplication, 0, len(apps))
	for i, app := range apps {
		summary := summarize(app.Materials, rules)
		ranked = append(ranked, RankedApplication{
			Rank:           i + 1,
			ApplicationID:  app.ID,
			User:           app.User,
			TotalScore:     summary.Total,
			CategoryScores: summary.PerCategory,
			Application:    app,
		})
	}

	return ranked, nil
}
