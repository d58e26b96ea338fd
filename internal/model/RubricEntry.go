package model

import "github.com/Vathanak-H/ScholarAward/internal/constant"

// RubricEntry is one cell of an item's score grid: (level, grade) mapped to a
// base score. Item creation seeds the full grid at zero; admins fill in the
// cells they care about.
type RubricEntry struct {
	BaseModel
	ItemID string              `gorm:"type:text;not null;uniqueIndex:idx_rubric_cell" json:"itemId"`
	Level  constant.AwardLevel `gorm:"type:varchar(20);not null;uniqueIndex:idx_rubric_cell" json:"level"`
	Grade  constant.AwardGrade `gorm:"type:varchar(20);not null;uniqueIndex:idx_rubric_cell" json:"grade"`
	// BaseScore is the score before any award-type adjustment.
	BaseScore int `gorm:"type:int;not null;default:0" json:"baseScore" form:"baseScore"`
	// CustomGradeLabel optionally overrides the grade's display name for
	// this cell.
	CustomGradeLabel string `gorm:"type:varchar(50);default:null" json:"customGradeLabel" form:"customGradeLabel"`
	// DefaultAwardType pre-selects individual or team in the submission form.
	DefaultAwardType constant.AwardType `gorm:"type:varchar(10);not null;default:'individual'" json:"defaultAwardType" form:"defaultAwardType"`
}

func (re RubricEntry) TableName() string {
	return "rubric_entries"
}
