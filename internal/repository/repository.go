package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Workshop     WorkshopRepository
	Lesson       LessonRepository
	Registration RegistrationRepository
	Reflection   ReflectionRepository
	Progress     ProgressRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Workshop:     NewWorkshopRepo(db),
		Lesson:       NewLessonRepo(db),
		Registration: NewRegistrationRepo(db),
		Reflection:   NewReflectionRepo(db),
		Progress:     NewProgressRepo(db),
	}
}
