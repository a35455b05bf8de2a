package model

// UserProfile 用户档案表，对应 users
// UID 为外部身份提供方的用户标识；档案不存在视为未登录
type UserProfile struct {
	UID      string `gorm:"column:uid;type:varchar(128);primaryKey"   json:"uid"`
	Name     string `gorm:"type:varchar(100);not null"                json:"name"`
	Email    string `gorm:"type:varchar(255);not null"                json:"email"`
	Role     string `gorm:"type:varchar(20);not null"                 json:"role"`
	PlanType string `gorm:"type:varchar(20);not null;default:'free'"  json:"plan_type"`
	BaseModel
}

// TableName 指定表名
func (UserProfile) TableName() string { return "users" }
