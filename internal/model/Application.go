package model

import (
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	"github.com/Vathanak-H/ScholarAward/internal/constant"
)

// Application is one student's submission for one batch. At most one row may
// exist per (user, batch); resubmissions rewrite the same row.
type Application struct {
	BaseModel
	UserID  string `gorm:"type:text;not null;uniqueIndex:idx_user_batch" json:"userId"`
	BatchID string `gorm:"type:text;not null;uniqueIndex:idx_user_batch" json:"batchId"`

	Status constant.ApplicationStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	// TotalScore is derived by the aggregator on every save, stored in
	// hundredths of a point.
	TotalScore    awarding.Score `gorm:"type:bigint;not null;default:0" json:"totalScore"`
	ReviewComment string         `gorm:"type:text;default:null" json:"reviewComment"`
	ReviewerID    *string        `gorm:"type:text;default:null" json:"reviewerId"`
	ReviewedAt    *time.Time     `gorm:"default:null" json:"reviewedAt"`
	SubmittedAt   *time.Time     `gorm:"default:null" json:"submittedAt"`

	User      User            `json:"user,omitempty"`
	Batch     Batch           `json:"batch,omitempty"`
	Materials []MaterialEntry `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"materials,omitempty"`
}

func (a Application) TableName() string {
	return "applications"
}
