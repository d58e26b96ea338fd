package model

type Announcement struct {
	BaseModel
	Title    string `gorm:"type:varchar(200);not null" json:"title" form:"title" binding:"required"`
	Content  string `gorm:"type:text;not null" json:"content" form:"content" binding:"required"`
	AuthorID string `gorm:"type:text;not null" json:"authorId"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (a Announcement) TableName() string {
	return "announcements"
}
