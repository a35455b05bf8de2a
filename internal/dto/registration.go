package dto

// ── 报名模块 DTO ──

// RegisterResponse 报名结果
// AlreadyRegistered 为 true 时未发生写入，ID 为既有报名记录
type RegisterResponse struct {
	RegistrationID    string `json:"registration_id"`
	AlreadyRegistered bool   `json:"already_registered"`
}

// RegistrationResponse 报名记录
type RegistrationResponse struct {
	ID           string `json:"id"`
	WorkshopID   string `json:"workshop_id"`
	LearnerID    string `json:"learner_id"`
	LearnerName  string `json:"learner_name"`
	RegisteredAt string `json:"registered_at"`
}
