package dto

// ── 学习进度/积分模块 DTO ──

// ProgressResponse 进度记录
type ProgressResponse struct {
	ID               string `json:"id"`
	LessonID         string `json:"lesson_id"`
	LearnerID        string `json:"learner_id"`
	ReflectionID     string `json:"reflection_id"`
	ReflectionStatus string `json:"reflection_status"`
	Points           int    `json:"points"`
	ReviewedBy       string `json:"reviewed_by,omitempty"`
	ReviewedAt       string `json:"reviewed_at,omitempty"`
}

// PointsResponse 学员总积分
type PointsResponse struct {
	LearnerID   string `json:"learner_id"`
	TotalPoints int    `json:"total_points"`
}

// ProgressSummaryResponse 学员进度汇总
type ProgressSummaryResponse struct {
	LearnerID   string `json:"learner_id"`
	TotalPoints int    `json:"total_points"`
	Approved    int    `json:"approved"`
	Rejected    int    `json:"rejected"`
	Pending     int    `json:"pending"`
}
