package dto

// ── 用户档案模块 DTO ──

// UpsertProfileRequest 外部注册完成后写入/更新用户档案
type UpsertProfileRequest struct {
	Name     string `json:"name"      binding:"required,min=2,max=100"`
	Email    string `json:"email"     binding:"required,email,max=255"`
	Role     string `json:"role"      binding:"required,oneof=job_seeker recruiter"`
	PlanType string `json:"plan_type" binding:"omitempty,max=20"`
}

// UserResponse 当前用户信息
type UserResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	PlanType  string `json:"plan_type"`
	CreatedAt string `json:"created_at"`
}

// LeaderboardRequest 排行榜查询参数
type LeaderboardRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetLimit 获取条数（含默认值）
func (r *LeaderboardRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// LeaderboardEntry 排行榜行
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	LearnerID   string `json:"learner_id"`
	LearnerName string `json:"learner_name"`
	TotalPoints int    `json:"total_points"`
}
