package model

type Item struct {
	BaseModel
	CategoryID  string `gorm:"type:text;not null;index" json:"categoryId" form:"categoryId"`
	Name        string `gorm:"type:varchar(100);not null" json:"name" form:"name" binding:"required"`
	Description string `gorm:"type:text;default:null" json:"description" form:"description"`

	RubricEntries []RubricEntry `gorm:"constraint:OnDelete:CASCADE" json:"rubric,omitempty"`
}

func (i Item) TableName() string {
	return "items"
}
