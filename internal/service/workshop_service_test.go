package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// ── 测试辅助 ──

const (
	testRecruiter = "recruiter-1"
	testOther     = "recruiter-2"
	testLearner   = "learner-1"
)

var (
	recruiterCaller = Caller{UserID: testRecruiter, Role: model.RoleRecruiter}
	learnerCaller   = Caller{UserID: testLearner, Role: model.RoleJobSeeker}
)

func setupTestWorkshopService() (WorkshopService, *mockRepos) {
	mocks := newMockRepos()
	return NewWorkshopService(mocks.repository(), zap.NewNop()), mocks
}

func validWorkshopRequest() *dto.CreateWorkshopRequest {
	return &dto.CreateWorkshopRequest{
		Title:           "Go 并发编程入门",
		Description:     "从 goroutine 到 channel，系统掌握 Go 并发模型的核心用法",
		Difficulty:      model.DifficultyBeginner,
		StartDate:       time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		SkillsAddressed: []string{"Go", " 并发 ", "Go", ""},
	}
}

// seedWorkshop 直接写入一个开放的工作坊
func seedWorkshop(t *testing.T, mocks *mockRepos, creatorID string, open bool) *model.Workshop {
	t.Helper()
	w := &model.Workshop{
		Title:       "测试工作坊标题",
		Description: "这是一个专门用于单元测试的工作坊描述文本内容",
		CreatorID:   creatorID,
		Difficulty:  model.DifficultyIntermediate,
		Schedule: model.WorkshopSchedule{
			StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			IsOpen:    open,
		},
	}
	if err := mocks.workshop.Create(context.Background(), w); err != nil {
		t.Fatalf("准备工作坊失败: %v", err)
	}
	return w
}

// seedLessons 按顺序写入 n 个课时
func seedLessons(t *testing.T, mocks *mockRepos, workshopID string, n int, requiresReflection bool) []*model.Lesson {
	t.Helper()
	lessons := make([]*model.Lesson, 0, n)
	for i := 1; i <= n; i++ {
		l := &model.Lesson{
			WorkshopID:         workshopID,
			Title:              "课时标题",
			Order:              i,
			RequiresReflection: requiresReflection,
			EstimatedDuration:  30,
		}
		if err := mocks.lesson.Create(context.Background(), l); err != nil {
			t.Fatalf("准备课时失败: %v", err)
		}
		lessons = append(lessons, l)
	}
	return lessons
}

// ── Create 测试 ──

func TestWorkshopService_Create_Success(t *testing.T) {
	svc, _ := setupTestWorkshopService()

	resp, err := svc.Create(context.Background(), validWorkshopRequest(), testRecruiter)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID == "" {
		t.Error("应生成工作坊 ID")
	}
	if resp.CreatorID != testRecruiter {
		t.Errorf("创建者应为 %s，实际: %s", testRecruiter, resp.CreatorID)
	}
	if !resp.Schedule.IsOpen {
		t.Error("未指定 is_open 时应默认开放")
	}
	if len(resp.SkillsAddressed) != 2 || resp.SkillsAddressed[0] != "Go" || resp.SkillsAddressed[1] != "并发" {
		t.Errorf("技能应去空白去重，实际: %v", resp.SkillsAddressed)
	}
}

func TestWorkshopService_Create_Validation(t *testing.T) {
	svc, mocks := setupTestWorkshopService()

	cases := map[string]func(r *dto.CreateWorkshopRequest){
		"标题过短": func(r *dto.CreateWorkshopRequest) { r.Title = "Go" },
		"描述过短": func(r *dto.CreateWorkshopRequest) { r.Description = "太短" },
		"难度非法": func(r *dto.CreateWorkshopRequest) { r.Difficulty = "expert" },
		"结束早于开始": func(r *dto.CreateWorkshopRequest) {
			end := r.StartDate.Add(-time.Hour)
			r.EndDate = &end
		},
		"缺少开始日期": func(r *dto.CreateWorkshopRequest) { r.StartDate = time.Time{} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validWorkshopRequest()
			mutate(req)
			_, err := svc.Create(context.Background(), req, testRecruiter)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("期望 ErrInvalidInput，实际: %v", err)
			}
		})
	}

	if len(mocks.workshop.workshops) != 0 {
		t.Errorf("校验失败不应写入存储，实际: %d 条", len(mocks.workshop.workshops))
	}
}

// ── GetByID / List 测试 ──

func TestWorkshopService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestWorkshopService()

	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrWorkshopNotFound) {
		t.Errorf("期望 ErrWorkshopNotFound，实际: %v", err)
	}
}

func TestWorkshopService_ListOpen_OnlyOpenNewestFirst(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	first := seedWorkshop(t, mocks, testRecruiter, true)
	seedWorkshop(t, mocks, testRecruiter, false)
	third := seedWorkshop(t, mocks, testOther, true)

	list, err := svc.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("ListOpen 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("期望 2 个开放工作坊，实际: %d", len(list))
	}
	if list[0].ID != third.WorkshopID || list[1].ID != first.WorkshopID {
		t.Errorf("应按创建时间倒序，实际: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestWorkshopService_ListByCreator(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	seedWorkshop(t, mocks, testRecruiter, true)
	seedWorkshop(t, mocks, testRecruiter, false)
	seedWorkshop(t, mocks, testOther, true)

	list, err := svc.ListByCreator(context.Background(), testRecruiter)
	if err != nil {
		t.Fatalf("ListByCreator 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("期望 2 个工作坊，实际: %d", len(list))
	}
}

// ── Update 测试 ──

func TestWorkshopService_Update_Partial(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)

	closed := false
	title := "更新后的工作坊标题"
	resp, err := svc.Update(context.Background(), w.WorkshopID, &dto.UpdateWorkshopRequest{
		Title:  &title,
		IsOpen: &closed,
	}, testRecruiter)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Title != title || resp.Schedule.IsOpen {
		t.Errorf("更新未生效: %+v", resp)
	}
	if resp.Description != w.Description {
		t.Error("未提供的字段不应改变")
	}
}

func TestWorkshopService_Update_ClearEndDate(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)
	end := w.Schedule.StartDate.Add(48 * time.Hour)

	resp, err := svc.Update(context.Background(), w.WorkshopID, &dto.UpdateWorkshopRequest{EndDate: &end}, testRecruiter)
	if err != nil {
		t.Fatalf("设置结束日期应成功: %v", err)
	}
	if resp.Schedule.EndDate == "" {
		t.Fatal("应返回结束日期")
	}

	resp, err = svc.Update(context.Background(), w.WorkshopID, &dto.UpdateWorkshopRequest{ClearEndDate: true}, testRecruiter)
	if err != nil {
		t.Fatalf("清除结束日期应成功: %v", err)
	}
	if resp.Schedule.EndDate != "" {
		t.Errorf("结束日期应被清除，实际: %s", resp.Schedule.EndDate)
	}
}

func TestWorkshopService_Update_Forbidden(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)

	title := "别人的工作坊标题"
	_, err := svc.Update(context.Background(), w.WorkshopID, &dto.UpdateWorkshopRequest{Title: &title}, testOther)
	if !errors.Is(err, ErrWorkshopForbidden) {
		t.Errorf("期望 ErrWorkshopForbidden，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestWorkshopService_Delete_Cascade(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)
	other := seedWorkshop(t, mocks, testRecruiter, true)
	lessons := seedLessons(t, mocks, w.WorkshopID, 12, true)
	seedLessons(t, mocks, other.WorkshopID, 1, true)
	mocks.registration.add(w.WorkshopID, testLearner)
	mocks.registration.add(other.WorkshopID, testLearner)

	for _, l := range lessons[:3] {
		if err := mocks.reflection.CreateWithProgress(context.Background(),
			&model.Reflection{LessonID: l.LessonID, LearnerID: testLearner, Content: "足够长的反思内容用于测试级联删除"},
			&model.Progress{LessonID: l.LessonID, LearnerID: testLearner, ReflectionStatus: model.ReflectionStatusPending},
		); err != nil {
			t.Fatalf("准备反思失败: %v", err)
		}
	}

	if err := svc.Delete(context.Background(), w.WorkshopID, testRecruiter); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}

	if _, err := mocks.workshop.GetByID(context.Background(), w.WorkshopID); err == nil {
		t.Error("工作坊应被删除")
	}
	remaining, _ := mocks.lesson.ListByWorkshop(context.Background(), w.WorkshopID)
	if len(remaining) != 0 {
		t.Errorf("课时应全部删除，剩余: %d", len(remaining))
	}
	if mocks.lesson.count() != 1 {
		t.Errorf("其他工作坊的课时不应受影响，实际总数: %d", mocks.lesson.count())
	}
	if mocks.progress.count() != 0 {
		t.Errorf("进度记录应全部删除，剩余: %d", mocks.progress.count())
	}
	if ok, _ := isRegistered(context.Background(), mocks.repository(), zap.NewNop(), w.WorkshopID, testLearner); ok {
		t.Error("报名记录应被删除")
	}
	if ok, _ := isRegistered(context.Background(), mocks.repository(), zap.NewNop(), other.WorkshopID, testLearner); !ok {
		t.Error("其他工作坊的报名记录不应受影响")
	}
}

func TestWorkshopService_Delete_LessonFailureKeepsWorkshop(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)
	lessons := seedLessons(t, mocks, w.WorkshopID, 3, false)
	mocks.registration.add(w.WorkshopID, testLearner)
	mocks.lesson.failDeleteID = lessons[1].LessonID

	if err := svc.Delete(context.Background(), w.WorkshopID, testRecruiter); err == nil {
		t.Fatal("课时删除失败时应返回错误")
	}

	if _, err := mocks.workshop.GetByID(context.Background(), w.WorkshopID); err != nil {
		t.Errorf("工作坊应保留，实际: %v", err)
	}
	if _, err := mocks.lesson.GetByID(context.Background(), lessons[1].LessonID); err != nil {
		t.Error("删除失败的课时应保留")
	}
	if ok, _ := isRegistered(context.Background(), mocks.repository(), zap.NewNop(), w.WorkshopID, testLearner); !ok {
		t.Error("报名记录不应被删除")
	}
}

func TestWorkshopService_Delete_Forbidden(t *testing.T) {
	svc, mocks := setupTestWorkshopService()
	w := seedWorkshop(t, mocks, testRecruiter, true)
	seedLessons(t, mocks, w.WorkshopID, 2, false)

	err := svc.Delete(context.Background(), w.WorkshopID, testOther)
	if !errors.Is(err, ErrWorkshopForbidden) {
		t.Errorf("期望 ErrWorkshopForbidden，实际: %v", err)
	}
	if mocks.lesson.count() != 2 {
		t.Error("无权删除时不应删除任何课时")
	}
}
