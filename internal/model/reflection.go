package model

import (
	"time"

	"gorm.io/gorm"
)

// Reflection 学习反思表，对应 reflections
// 提交后仅 Reviewed 字段会被更新
type Reflection struct {
	ReflectionID string    `gorm:"type:varchar(36);primaryKey"           json:"reflection_id"`
	LessonID     string    `gorm:"type:varchar(36);not null;index"       json:"lesson_id"`
	LearnerID    string    `gorm:"type:varchar(128);not null;index"      json:"learner_id"`
	LearnerName  string    `gorm:"type:varchar(100);not null;default:''" json:"learner_name"`
	Content      string    `gorm:"type:text;not null"                    json:"content"`
	SubmittedAt  time.Time `gorm:"not null"                              json:"submitted_at"`
	Reviewed     bool      `gorm:"not null;default:false"                json:"reviewed"`
}

// TableName 指定表名
func (Reflection) TableName() string { return "reflections" }

// BeforeCreate 生成主键
func (r *Reflection) BeforeCreate(_ *gorm.DB) error {
	if r.ReflectionID == "" {
		r.ReflectionID = newID()
	}
	return nil
}
