package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 通用时间戳字段（由 GORM 自动维护，统一为 UTC time.Time）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// newID 生成实体主键
func newID() string {
	return uuid.New().String()
}

// ── 角色 ──

const (
	RoleJobSeeker = "job_seeker"
	RoleRecruiter = "recruiter"
)

// IsValidRole 校验角色取值
func IsValidRole(role string) bool {
	return role == RoleJobSeeker || role == RoleRecruiter
}
