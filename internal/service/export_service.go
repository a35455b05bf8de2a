package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

const (
	rosterSheetName = "报名名单"
	calendarProdID  = "-//SkillUp Connect//Workshops//ZH"
	// calendarDefaultSpan 未设置结束日期的工作坊在日历中占用的时长
	calendarDefaultSpan = 24 * time.Hour
)

// ExportService 导出业务接口
//
// 导出内容以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出工作坊报名名单及学员在该工作坊内的积分（xlsx，仅创建者）
	ExportRoster(ctx context.Context, workshopID string, callerID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出工作坊日程为 iCalendar 事件
	ExportCalendar(ctx context.Context, workshopID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	baseURL string
	repo    *repository.Repository
	logger  *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(baseURL string, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		logger:  logger,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster: 报名名单导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 列：序号 | 学员 ID | 姓名 | 报名时间 | 已通过 | 未通过 | 待审核 | 积分
// 积分仅统计该工作坊课时下的进度记录

type rosterStats struct {
	approved int
	rejected int
	pending  int
	points   int
}

func (s *exportService) ExportRoster(ctx context.Context, workshopID string, callerID string) (*bytes.Buffer, string, error) {
	w, err := loadOwnedWorkshop(ctx, s.repo, s.logger, workshopID, callerID)
	if err != nil {
		return nil, "", err
	}

	regs, err := s.repo.Registration.ListByWorkshop(ctx, workshopID)
	if err != nil {
		s.logger.Error("查询报名名单失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, "", err
	}

	lessons, err := s.repo.Lesson.ListByWorkshop(ctx, workshopID)
	if err != nil {
		s.logger.Error("查询工作坊课时失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, "", err
	}
	lessonIDs := make([]string, 0, len(lessons))
	for i := range lessons {
		lessonIDs = append(lessonIDs, lessons[i].LessonID)
	}

	progress, err := s.repo.Progress.ListByLessons(ctx, lessonIDs)
	if err != nil {
		s.logger.Error("查询工作坊进度失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, "", err
	}

	stats := make(map[string]*rosterStats, len(regs))
	for i := range progress {
		p := &progress[i]
		st, ok := stats[p.LearnerID]
		if !ok {
			st = &rosterStats{}
			stats[p.LearnerID] = st
		}
		st.points += p.Points
		switch p.ReflectionStatus {
		case model.ReflectionStatusApproved:
			st.approved++
		case model.ReflectionStatusRejected:
			st.rejected++
		default:
			st.pending++
		}
	}

	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].RegisteredAt.Before(regs[j].RegisteredAt)
	})

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(rosterSheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"序号", "学员 ID", "姓名", "报名时间", "已通过", "未通过", "待审核", "积分"}
	widths := []float64{8, 30, 16, 22, 10, 10, 10, 10}

	// 标题行
	lastCol := colName(len(headers) - 1)
	_ = f.SetCellValue(rosterSheetName, "A1", fmt.Sprintf("%s 报名名单", w.Title))
	_ = f.MergeCell(rosterSheetName, "A1", cell(lastCol, 1))
	_ = f.SetCellStyle(rosterSheetName, "A1", cell(lastCol, 1), headerStyle)

	// 表头
	for i, h := range headers {
		col := colName(i)
		_ = f.SetColWidth(rosterSheetName, col, col, widths[i])
		_ = f.SetCellValue(rosterSheetName, cell(col, 2), h)
	}
	_ = f.SetCellStyle(rosterSheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	for i := range regs {
		r := &regs[i]
		st := stats[r.LearnerID]
		if st == nil {
			st = &rosterStats{}
		}
		row := i + 3
		values := []interface{}{
			i + 1,
			r.LearnerID,
			r.LearnerName,
			r.RegisteredAt.UTC().Format("2006-01-02 15:04"),
			st.approved,
			st.rejected,
			st.pending,
			st.points,
		}
		for c, v := range values {
			_ = f.SetCellValue(rosterSheetName, cell(colName(c), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("报名名单_%s.xlsx", w.Title)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar: 工作坊日程导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 单个 VEVENT：开始为 start_date，结束为 end_date（缺省时开始后 24 小时）

func (s *exportService) ExportCalendar(ctx context.Context, workshopID string) (*bytes.Buffer, string, error) {
	w, err := loadWorkshop(ctx, s.repo, s.logger, workshopID)
	if err != nil {
		return nil, "", err
	}

	start := w.Schedule.StartDate.UTC()
	end := start.Add(calendarDefaultSpan)
	if w.Schedule.EndDate != nil {
		end = w.Schedule.EndDate.UTC()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProdID)

	event := cal.AddEvent(w.WorkshopID)
	event.SetDtStampTime(time.Now().UTC())
	event.SetCreatedTime(w.CreatedAt.UTC())
	event.SetModifiedAt(w.UpdatedAt.UTC())
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(w.Title)
	event.SetDescription(calendarDescription(w))
	if s.baseURL != "" {
		event.SetURL(s.baseURL + "/workshops/" + w.WorkshopID)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("workshop_%s.ics", w.WorkshopID), nil
}

func calendarDescription(w *model.Workshop) string {
	var b strings.Builder
	b.WriteString(w.Description)
	b.WriteString("\n难度: ")
	b.WriteString(w.Difficulty)
	if len(w.SkillsAddressed) > 0 {
		b.WriteString("\n技能: ")
		b.WriteString(strings.Join(w.SkillsAddressed, ", "))
	}
	return b.String()
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
