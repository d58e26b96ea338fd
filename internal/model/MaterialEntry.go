package model

import "github.com/Vathanak-H/ScholarAward/internal/constant"

// MaterialEntry is one declared award inside an application. Its natural key
// within the application is (categoryId, itemId); resubmissions update the
// same row in place so attachment history survives.
type MaterialEntry struct {
	BaseModel
	ApplicationID string `gorm:"type:text;not null;uniqueIndex:idx_app_material" json:"applicationId"`
	CategoryID    string `gorm:"type:text;not null;uniqueIndex:idx_app_material" json:"categoryId"`
	ItemID        string `gorm:"type:text;not null;uniqueIndex:idx_app_material" json:"itemId"`

	AwardLevel constant.AwardLevel `gorm:"type:varchar(20);not null" json:"awardLevel"`
	AwardGrade constant.AwardGrade `gorm:"type:varchar(20);not null" json:"awardGrade"`
	AwardType  constant.AwardType  `gorm:"type:varchar(10);not null;default:'individual'" json:"awardType"`
	// Score is resolved server side from the rubric, post team halving.
	Score int `gorm:"type:int;not null;default:0" json:"score"`

	Category    Category     `json:"category,omitempty"`
	Item        Item         `json:"item,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:MaterialEntryID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (m MaterialEntry) TableName() string {
	return "material_entries"
}
