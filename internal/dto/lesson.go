package dto

// ── 课时模块 DTO ──

// CreateLessonRequest 创建课时请求
// content 与 content_uri 均可选
type CreateLessonRequest struct {
	Title              string `json:"title"               binding:"required,min=3,max=200"`
	Content            string `json:"content"             binding:"omitempty,min=20"`
	ContentURI         string `json:"content_uri"         binding:"omitempty,url,max=2048"`
	RequiresReflection bool   `json:"requires_reflection"`
	EstimatedDuration  int    `json:"estimated_duration"  binding:"required,min=1"`
}

// UpdateLessonRequest 更新课时请求（序号不在此修改，见 MoveLessonRequest）
type UpdateLessonRequest struct {
	Title              *string `json:"title"               binding:"omitempty,min=3,max=200"`
	Content            *string `json:"content"             binding:"omitempty,min=20"`
	ContentURI         *string `json:"content_uri"         binding:"omitempty,url,max=2048"`
	RequiresReflection *bool   `json:"requires_reflection"`
	EstimatedDuration  *int    `json:"estimated_duration"  binding:"omitempty,min=1"`
}

// MoveLessonRequest 课时上移/下移请求
type MoveLessonRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// LessonResponse 课时信息响应
type LessonResponse struct {
	ID                 string `json:"id"`
	WorkshopID         string `json:"workshop_id"`
	Title              string `json:"title"`
	Content            string `json:"content,omitempty"`
	ContentURI         string `json:"content_uri,omitempty"`
	RequiresReflection bool   `json:"requires_reflection"`
	Order              int    `json:"order"`
	EstimatedDuration  int    `json:"estimated_duration"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}
