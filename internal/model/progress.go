package model

import (
	"time"

	"gorm.io/gorm"
)

// ── 反思审核状态 ──

const (
	ReflectionStatusPending  = "pending"
	ReflectionStatusApproved = "approved"
	ReflectionStatusRejected = "rejected"
)

// 审核积分
const (
	PointsApproved = 50
	PointsRejected = -30
)

// PointsForDecision 审核结论对应的积分；非法结论返回 false
func PointsForDecision(decision string) (int, bool) {
	switch decision {
	case ReflectionStatusApproved:
		return PointsApproved, true
	case ReflectionStatusRejected:
		return PointsRejected, true
	}
	return 0, false
}

// Progress 学习进度表，对应 progress
// 每条 Reflection 至多对应一条 Progress（reflection_id 唯一）；
// 重新审核覆盖 Points，不累加
type Progress struct {
	ProgressID       string     `gorm:"type:varchar(36);primaryKey"                   json:"progress_id"`
	LessonID         string     `gorm:"type:varchar(36);not null;index"               json:"lesson_id"`
	LearnerID        string     `gorm:"type:varchar(128);not null;index"              json:"learner_id"`
	ReflectionID     string     `gorm:"type:varchar(36);not null;uniqueIndex"         json:"reflection_id"`
	ReflectionStatus string     `gorm:"type:varchar(20);not null;default:'pending'"   json:"reflection_status"`
	Points           int        `gorm:"not null;default:0"                            json:"points"`
	ReviewedBy       string     `gorm:"type:varchar(128);not null;default:''"         json:"reviewed_by"`
	ReviewedAt       *time.Time `                                                     json:"reviewed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Progress) TableName() string { return "progress" }

// BeforeCreate 生成主键
func (p *Progress) BeforeCreate(_ *gorm.DB) error {
	if p.ProgressID == "" {
		p.ProgressID = newID()
	}
	return nil
}
