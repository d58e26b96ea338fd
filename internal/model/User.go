package model

import "github.com/Vathanak-H/ScholarAward/internal/constant"

type User struct {
	BaseModel
	Username     string            `gorm:"type:varchar(50);not null;uniqueIndex" json:"username" form:"username" binding:"required"`
	PasswordHash string            `gorm:"type:text;not null" json:"-"`
	Email        string            `gorm:"type:text;default:null" json:"email" form:"email"`
	RealName     string            `gorm:"type:varchar(50);not null" json:"realName" form:"realName" binding:"required"`
	StudentID    string            `gorm:"type:varchar(30);default:null" json:"studentId" form:"studentId"`
	Class        string            `gorm:"type:varchar(50);default:null" json:"class" form:"class"`
	Major        string            `gorm:"type:varchar(50);default:null" json:"major" form:"major"`
	Role         constant.UserRole `gorm:"type:varchar(10);not null;default:'student'" json:"role" form:"role"`
}

func (u User) TableName() string {
	return "users"
}
