package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ── 难度 ──

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// IsValidDifficulty 校验难度取值
func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// WorkshopSchedule 工作坊日程（内嵌于 workshops 表，列前缀 schedule_）
type WorkshopSchedule struct {
	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `                json:"end_date,omitempty"`
	IsOpen    bool       `gorm:"not null" json:"is_open"` // 不可设 gorm default，零值 false 会被 INSERT 省略
}

// Workshop 工作坊表，对应 workshops
type Workshop struct {
	WorkshopID      string                      `gorm:"type:varchar(36);primaryKey"                 json:"workshop_id"`
	Title           string                      `gorm:"type:varchar(200);not null"                  json:"title"`
	Description     string                      `gorm:"type:text;not null"                          json:"description"`
	CreatorID       string                      `gorm:"type:varchar(128);not null;index"            json:"creator_id"`
	Schedule        WorkshopSchedule            `gorm:"embedded;embeddedPrefix:schedule_"           json:"schedule"`
	SkillsAddressed datatypes.JSONSlice[string] `gorm:"not null"                                    json:"skills_addressed"`
	Difficulty      string                      `gorm:"type:varchar(20);not null"                   json:"difficulty"`
	BaseModel
}

// TableName 指定表名
func (Workshop) TableName() string { return "workshops" }

// BeforeCreate 生成主键
func (w *Workshop) BeforeCreate(_ *gorm.DB) error {
	if w.WorkshopID == "" {
		w.WorkshopID = newID()
	}
	if w.SkillsAddressed == nil {
		w.SkillsAddressed = datatypes.JSONSlice[string]{}
	}
	return nil
}
