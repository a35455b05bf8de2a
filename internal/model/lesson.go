package model

import "gorm.io/gorm"

// Lesson 课时表，对应 lessons
// Content 与 ContentURI 均为可选，二者至少其一应有内容（不强制）
// Order 为工作坊内 1 起连续的序号，列名 sort_order 避开 SQL 关键字
type Lesson struct {
	LessonID           string `gorm:"type:varchar(36);primaryKey"             json:"lesson_id"`
	WorkshopID         string `gorm:"type:varchar(36);not null;index"         json:"workshop_id"`
	Title              string `gorm:"type:varchar(200);not null"              json:"title"`
	Content            string `gorm:"type:text;not null;default:''"           json:"content,omitempty"`
	ContentURI         string `gorm:"column:content_uri;type:varchar(2048);not null;default:''" json:"content_uri,omitempty"`
	RequiresReflection bool   `gorm:"not null;default:false"                  json:"requires_reflection"`
	Order              int    `gorm:"column:sort_order;not null"              json:"order"`
	EstimatedDuration  int    `gorm:"not null;default:0"                      json:"estimated_duration"` // 分钟
	BaseModel
}

// TableName 指定表名
func (Lesson) TableName() string { return "lessons" }

// BeforeCreate 生成主键
func (l *Lesson) BeforeCreate(_ *gorm.DB) error {
	if l.LessonID == "" {
		l.LessonID = newID()
	}
	return nil
}
