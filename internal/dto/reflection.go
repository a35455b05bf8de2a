package dto

// ── 学习反思模块 DTO ──

// SubmitReflectionRequest 提交反思请求（长度在 Service 层按去除首尾空白后的字符数校验）
type SubmitReflectionRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

// ReviewReflectionRequest 审核反思请求
type ReviewReflectionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

// SubmitReflectionResponse 提交反思结果
type SubmitReflectionResponse struct {
	ReflectionID string `json:"reflection_id"`
	ProgressID   string `json:"progress_id"`
	Status       string `json:"status"`
}

// ReflectionResponse 反思记录
type ReflectionResponse struct {
	ID          string `json:"id"`
	LessonID    string `json:"lesson_id"`
	LearnerID   string `json:"learner_id"`
	LearnerName string `json:"learner_name"`
	Content     string `json:"content"`
	SubmittedAt string `json:"submitted_at"`
	Reviewed    bool   `json:"reviewed"`
}
