package model

// Category groups rubric items and carries the weighting rules used when an
// application's total score is computed.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null" json:"name" form:"name" binding:"required"`
	Description string `gorm:"type:text;default:null" json:"description" form:"description"`
	// ScoreRatio is the category's percentage weight, 0-100.
	ScoreRatio int `gorm:"type:int;not null;default:0" json:"scoreRatio" form:"scoreRatio"`
	// HasScoreCap limits the category's raw point sum to 100 before weighting.
	HasScoreCap bool `gorm:"type:boolean;not null;default:false" json:"hasScoreCap" form:"hasScoreCap"`

	Items []Item `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (c Category) TableName() string {
	return "categories"
}
