package dto

import "time"

// ── 工作坊模块 DTO ──

// CreateWorkshopRequest 创建工作坊请求
type CreateWorkshopRequest struct {
	Title           string     `json:"title"            binding:"required,min=5,max=200"`
	Description     string     `json:"description"      binding:"required,min=20"`
	Difficulty      string     `json:"difficulty"       binding:"required,oneof=beginner intermediate advanced"`
	StartDate       time.Time  `json:"start_date"       binding:"required"`
	EndDate         *time.Time `json:"end_date"`
	IsOpen          *bool      `json:"is_open"` // 缺省为 true
	SkillsAddressed []string   `json:"skills_addressed" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// UpdateWorkshopRequest 更新工作坊请求（字段均可选）
type UpdateWorkshopRequest struct {
	Title           *string    `json:"title"            binding:"omitempty,min=5,max=200"`
	Description     *string    `json:"description"      binding:"omitempty,min=20"`
	Difficulty      *string    `json:"difficulty"       binding:"omitempty,oneof=beginner intermediate advanced"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	ClearEndDate    bool       `json:"clear_end_date"`
	IsOpen          *bool      `json:"is_open"`
	SkillsAddressed []string   `json:"skills_addressed" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// WorkshopScheduleResponse 工作坊日程
type WorkshopScheduleResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	IsOpen    bool   `json:"is_open"`
}

// WorkshopResponse 工作坊信息响应
type WorkshopResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	CreatorID       string                   `json:"creator_id"`
	Schedule        WorkshopScheduleResponse `json:"schedule"`
	SkillsAddressed []string                 `json:"skills_addressed"`
	Difficulty      string                   `json:"difficulty"`
	CreatedAt       string                   `json:"created_at"`
	UpdatedAt       string                   `json:"updated_at"`
}
