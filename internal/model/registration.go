package model

import (
	"time"

	"github.com/google/uuid"
)

// registrationNamespace 报名记录确定性主键的命名空间
var registrationNamespace = uuid.MustParse("6f1c8f0e-2a57-4c59-9d43-7c1e0b8a5d21")

// Registration 报名表，对应 registrations
// (workshop_id, learner_id) 唯一；主键由二者确定性派生，重复写入必然冲突
type Registration struct {
	RegistrationID string    `gorm:"type:varchar(36);primaryKey"                                        json:"registration_id"`
	WorkshopID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_registrations_workshop_learner" json:"workshop_id"`
	LearnerID      string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_registrations_workshop_learner;index" json:"learner_id"`
	LearnerName    string    `gorm:"type:varchar(100);not null;default:''"                              json:"learner_name"`
	RegisteredAt   time.Time `gorm:"not null"                                                           json:"registered_at"`
}

// TableName 指定表名
func (Registration) TableName() string { return "registrations" }

// RegistrationIDFor 由 (workshopID, learnerID) 派生的幂等主键（UUID v5）
func RegistrationIDFor(workshopID, learnerID string) string {
	return uuid.NewSHA1(registrationNamespace, []byte(workshopID+":"+learnerID)).String()
}
