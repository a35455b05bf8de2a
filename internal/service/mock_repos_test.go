package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
	pkgerrors "github.com/PLanet-09AI/skillup-nexus-connect/pkg/errors"
)

// ── Mock 聚合 ──

type mockRepos struct {
	user         *mockUserRepo
	workshop     *mockWorkshopRepo
	lesson       *mockLessonRepo
	registration *mockRegistrationRepo
	reflection   *mockReflectionRepo
	progress     *mockProgressRepo
}

func newMockRepos() *mockRepos {
	progress := newMockProgressRepo()
	users := newMockUserRepo()
	progress.users = users
	return &mockRepos{
		user:         users,
		workshop:     newMockWorkshopRepo(),
		lesson:       newMockLessonRepo(),
		registration: newMockRegistrationRepo(),
		reflection:   newMockReflectionRepo(progress),
		progress:     progress,
	}
}

func (m *mockRepos) repository() *repository.Repository {
	return &repository.Repository{
		User:         m.user,
		Workshop:     m.workshop,
		Lesson:       m.lesson,
		Registration: m.registration,
		Reflection:   m.reflection,
		Progress:     m.progress,
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.UserProfile
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.UserProfile)}
}

func (m *mockUserRepo) GetByID(_ context.Context, uid string) (*model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := m.users[user.UID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	cp := *user
	m.users[user.UID] = &cp
	return nil
}

func (m *mockUserRepo) name(uid string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[uid]; ok {
		return u.Name
	}
	return ""
}

// ── Mock WorkshopRepository ──

type mockWorkshopRepo struct {
	mu        sync.Mutex
	seq       int
	workshops map[string]*model.Workshop
}

func newMockWorkshopRepo() *mockWorkshopRepo {
	return &mockWorkshopRepo{workshops: make(map[string]*model.Workshop)}
}

func (m *mockWorkshopRepo) Create(_ context.Context, w *model.Workshop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if w.WorkshopID == "" {
		w.WorkshopID = fmt.Sprintf("ws-%d", m.seq)
	}
	// 保证 created_at 严格递增，便于排序断言
	w.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	w.UpdatedAt = w.CreatedAt
	cp := *w
	m.workshops[w.WorkshopID] = &cp
	return nil
}

func (m *mockWorkshopRepo) GetByID(_ context.Context, id string) (*model.Workshop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.workshops[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkshopRepo) ListByCreator(_ context.Context, creatorID string) ([]model.Workshop, error) {
	return m.list(func(w *model.Workshop) bool { return w.CreatorID == creatorID }), nil
}

func (m *mockWorkshopRepo) ListOpen(_ context.Context) ([]model.Workshop, error) {
	return m.list(func(w *model.Workshop) bool { return w.Schedule.IsOpen }), nil
}

func (m *mockWorkshopRepo) list(keep func(*model.Workshop) bool) []model.Workshop {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Workshop
	for _, w := range m.workshops {
		if keep(w) {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *mockWorkshopRepo) Update(_ context.Context, w *model.Workshop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workshops[w.WorkshopID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *w
	m.workshops[w.WorkshopID] = &cp
	return nil
}

func (m *mockWorkshopRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workshops, id)
	return nil
}

// ── Mock LessonRepository ──

type mockLessonRepo struct {
	mu          sync.Mutex
	seq         int
	lessons     map[string]*model.Lesson
	orderWrites int
	orderErr    error
	// failOrderID/failDeleteID 命中指定课时时返回错误，模拟中途失败
	failOrderID  string
	failDeleteID string
}

func newMockLessonRepo() *mockLessonRepo {
	return &mockLessonRepo{lessons: make(map[string]*model.Lesson)}
}

func (m *mockLessonRepo) Create(_ context.Context, lesson *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if lesson.LessonID == "" {
		lesson.LessonID = fmt.Sprintf("ls-%d", m.seq)
	}
	cp := *lesson
	m.lessons[lesson.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) GetByID(_ context.Context, id string) (*model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lessons[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) ListByWorkshop(_ context.Context, workshopID string) ([]model.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Lesson
	for _, l := range m.lessons {
		if l.WorkshopID == workshopID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (m *mockLessonRepo) MaxOrder(_ context.Context, workshopID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxOrder := 0
	for _, l := range m.lessons {
		if l.WorkshopID == workshopID && l.Order > maxOrder {
			maxOrder = l.Order
		}
	}
	return maxOrder, nil
}

func (m *mockLessonRepo) Update(_ context.Context, lesson *model.Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lessons[lesson.LessonID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *lesson
	m.lessons[lesson.LessonID] = &cp
	return nil
}

func (m *mockLessonRepo) UpdateOrder(_ context.Context, id string, order int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orderErr != nil {
		return m.orderErr
	}
	if id == m.failOrderID {
		return errors.New("update order failed")
	}
	l, ok := m.lessons[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Order = order
	m.orderWrites++
	return nil
}

func (m *mockLessonRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failDeleteID {
		return errors.New("delete lesson failed")
	}
	delete(m.lessons, id)
	return nil
}

func (m *mockLessonRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lessons)
}

// ── Mock RegistrationRepository ──

type mockRegistrationRepo struct {
	mu          sync.Mutex
	regs        map[string]*model.Registration
	createCalls int
	// beforeCreate 在写入前调用，用于模拟并发报名抢先落库
	beforeCreate func(reg *model.Registration)
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{regs: make(map[string]*model.Registration)}
}

func (m *mockRegistrationRepo) Create(_ context.Context, reg *model.Registration) error {
	if m.beforeCreate != nil {
		m.beforeCreate(reg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	for _, r := range m.regs {
		if r.WorkshopID == reg.WorkshopID && r.LearnerID == reg.LearnerID {
			return pkgerrors.ErrDuplicateKey
		}
	}
	if _, ok := m.regs[reg.RegistrationID]; ok {
		return pkgerrors.ErrDuplicateKey
	}
	cp := *reg
	m.regs[reg.RegistrationID] = &cp
	return nil
}

func (m *mockRegistrationRepo) GetByWorkshopAndLearner(_ context.Context, workshopID, learnerID string) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.regs {
		if r.WorkshopID == workshopID && r.LearnerID == learnerID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) ListByLearner(_ context.Context, learnerID string) ([]model.Registration, error) {
	return m.list(func(r *model.Registration) bool { return r.LearnerID == learnerID }), nil
}

func (m *mockRegistrationRepo) ListByWorkshop(_ context.Context, workshopID string) ([]model.Registration, error) {
	return m.list(func(r *model.Registration) bool { return r.WorkshopID == workshopID }), nil
}

func (m *mockRegistrationRepo) list(keep func(*model.Registration) bool) []model.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Registration
	for _, r := range m.regs {
		if keep(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RegisteredAt.After(result[j].RegisteredAt) })
	return result
}

func (m *mockRegistrationRepo) DeleteByWorkshop(_ context.Context, workshopID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.regs {
		if r.WorkshopID == workshopID {
			delete(m.regs, id)
		}
	}
	return nil
}

// add 直接写入报名记录（测试数据准备）
func (m *mockRegistrationRepo) add(workshopID, learnerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := model.RegistrationIDFor(workshopID, learnerID)
	m.regs[id] = &model.Registration{
		RegistrationID: id,
		WorkshopID:     workshopID,
		LearnerID:      learnerID,
		RegisteredAt:   time.Now().UTC(),
	}
}

// ── Mock ReflectionRepository ──

type mockReflectionRepo struct {
	mu          sync.Mutex
	seq         int
	reflections map[string]*model.Reflection
	progress    *mockProgressRepo
}

func newMockReflectionRepo(progress *mockProgressRepo) *mockReflectionRepo {
	return &mockReflectionRepo{
		reflections: make(map[string]*model.Reflection),
		progress:    progress,
	}
}

func (m *mockReflectionRepo) CreateWithProgress(ctx context.Context, reflection *model.Reflection, progress *model.Progress) error {
	m.insert(reflection)
	progress.ReflectionID = reflection.ReflectionID
	return m.progress.Create(ctx, progress)
}

// insert 仅写入反思，不创建进度记录
func (m *mockReflectionRepo) insert(reflection *model.Reflection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if reflection.ReflectionID == "" {
		reflection.ReflectionID = fmt.Sprintf("rf-%d", m.seq)
	}
	cp := *reflection
	m.reflections[reflection.ReflectionID] = &cp
}

func (m *mockReflectionRepo) GetByID(_ context.Context, id string) (*model.Reflection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reflections[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReflectionRepo) ListByLesson(_ context.Context, lessonID string) ([]model.Reflection, error) {
	return m.list(func(r *model.Reflection) bool { return r.LessonID == lessonID }), nil
}

func (m *mockReflectionRepo) ListByLearner(_ context.Context, learnerID string) ([]model.Reflection, error) {
	return m.list(func(r *model.Reflection) bool { return r.LearnerID == learnerID }), nil
}

func (m *mockReflectionRepo) list(keep func(*model.Reflection) bool) []model.Reflection {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Reflection
	for _, r := range m.reflections {
		if keep(r) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ReflectionID < result[j].ReflectionID })
	return result
}

func (m *mockReflectionRepo) MarkReviewed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reflections[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Reviewed = true
	return nil
}

func (m *mockReflectionRepo) DeleteByLesson(_ context.Context, lessonID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.reflections {
		if r.LessonID == lessonID {
			delete(m.reflections, id)
		}
	}
	return nil
}

// ── Mock ProgressRepository ──

type mockProgressRepo struct {
	mu       sync.Mutex
	seq      int
	progress map[string]*model.Progress
	users    *mockUserRepo

	createCalls int
	updateCalls int
	// beforeCreate 在写入前调用，用于模拟并发审核抢先建成进度记录
	beforeCreate func(p *model.Progress)
	listErr      error
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{progress: make(map[string]*model.Progress)}
}

func (m *mockProgressRepo) Create(_ context.Context, p *model.Progress) error {
	if m.beforeCreate != nil {
		m.beforeCreate(p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	for _, existing := range m.progress {
		if existing.ReflectionID == p.ReflectionID {
			return pkgerrors.ErrDuplicateKey
		}
	}
	m.seq++
	if p.ProgressID == "" {
		p.ProgressID = fmt.Sprintf("pg-%d", m.seq)
	}
	cp := *p
	m.progress[p.ProgressID] = &cp
	return nil
}

func (m *mockProgressRepo) GetByReflectionID(_ context.Context, reflectionID string) (*model.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.progress {
		if p.ReflectionID == reflectionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) UpdateReview(_ context.Context, p *model.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	existing, ok := m.progress[p.ProgressID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.ReflectionStatus = p.ReflectionStatus
	existing.Points = p.Points
	existing.ReviewedBy = p.ReviewedBy
	existing.ReviewedAt = p.ReviewedAt
	return nil
}

func (m *mockProgressRepo) ListByLearner(_ context.Context, learnerID string) ([]model.Progress, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list(func(p *model.Progress) bool { return p.LearnerID == learnerID }), nil
}

func (m *mockProgressRepo) ListByLessons(_ context.Context, lessonIDs []string) ([]model.Progress, error) {
	set := make(map[string]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		set[id] = true
	}
	return m.list(func(p *model.Progress) bool { return set[p.LessonID] }), nil
}

func (m *mockProgressRepo) list(keep func(*model.Progress) bool) []model.Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Progress
	for _, p := range m.progress {
		if keep(p) {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProgressID < result[j].ProgressID })
	return result
}

func (m *mockProgressRepo) DeleteByLesson(_ context.Context, lessonID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.progress {
		if p.LessonID == lessonID {
			delete(m.progress, id)
		}
	}
	return nil
}

func (m *mockProgressRepo) Leaderboard(_ context.Context, limit int) ([]repository.LearnerPoints, error) {
	m.mu.Lock()
	totals := make(map[string]int)
	for _, p := range m.progress {
		totals[p.LearnerID] += p.Points
	}
	m.mu.Unlock()

	rows := make([]repository.LearnerPoints, 0, len(totals))
	for id, total := range totals {
		name := ""
		if m.users != nil {
			name = m.users.name(id)
		}
		rows = append(rows, repository.LearnerPoints{LearnerID: id, LearnerName: name, TotalPoints: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].LearnerID < rows[j].LearnerID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockProgressRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.progress)
}
