package model

import (
	"time"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
)

// Batch is one scholarship round students apply against.
type Batch struct {
	BaseModel
	Name        string               `gorm:"type:varchar(100);not null" json:"name" form:"name" binding:"required"`
	Description string               `gorm:"type:text;default:null" json:"description" form:"description"`
	StartDate   *time.Time           `gorm:"type:date" json:"startDate" form:"startDate"`
	EndDate     *time.Time           `gorm:"type:date" json:"endDate" form:"endDate"`
	Status      constant.BatchStatus `gorm:"type:varchar(10);not null;default:'open'" json:"status" form:"status"`
}

func (b Batch) TableName() string {
	return "batches"
}
