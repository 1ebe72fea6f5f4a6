package jobs

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// mockTimesheetRepository 用内存 map 模拟值班表的持久化层
type mockTimesheetRepository struct {
	timesheets map[string]*domain.Timesheet
	inserted   []*domain.Timesheet
}

func newMockTimesheetRepository() *mockTimesheetRepository {
	return &mockTimesheetRepository{
		timesheets: make(map[string]*domain.Timesheet),
	}
}

func (m *mockTimesheetRepository) GetTimesheetByDate(date time.Time) (*domain.Timesheet, error) {
	ts, exists := m.timesheets[domain.DateOnly(date).Format("2006-01-02")]
	if !exists {
		return nil, sql.ErrNoRows
	}
	return ts, nil
}

func (m *mockTimesheetRepository) GetLatestTimesheet() (*domain.Timesheet, error) {
	var latest *domain.Timesheet
	for _, ts := range m.timesheets {
		if latest == nil || ts.Date.After(latest.Date) {
			latest = ts
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (m *mockTimesheetRepository) InsertTimesheet(ts *domain.Timesheet) error {
	m.timesheets[domain.DateOnly(ts.Date).Format("2006-01-02")] = ts
	m.inserted = append(m.inserted, ts)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func templateTimesheet(date time.Time) *domain.Timesheet {
	employeeID := int64(42)
	actualStart := date.Add(9 * time.Hour)

	return &domain.Timesheet{
		ID:   "ts-template",
		Date: domain.DateOnly(date),
		Groups: []domain.Group{
			{
				ID:    "g-1",
				Name:  "前台",
				Color: "#4f46e5",
				SubGroups: []domain.SubGroup{
					{
						ID:   "sg-1",
						Name: "早班组",
						Shifts: []domain.Shift{
							{
								ID:              "s-1",
								StartTime:       "09:00",
								EndTime:         "13:00",
								Role:            "收银",
								EmployeeID:      &employeeID,
								Status:          domain.ShiftStatusCompleted,
								ActualStartTime: &actualStart,
								Notes:           "迟到两分钟",
							},
						},
					},
				},
			},
		},
	}
}

func TestMaterializeNextClonesLatestStructure(t *testing.T) {
	repo := newMockTimesheetRepository()
	yesterday := domain.DateOnly(time.Now().AddDate(0, 0, -1))
	repo.timesheets[yesterday.Format("2006-01-02")] = templateTimesheet(yesterday)

	materializer := NewMaterializer(repo, discardLogger())
	if err := materializer.MaterializeNext(); err != nil {
		t.Fatalf("生成次日值班表失败: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("应插入 1 张值班表，实际插入 %d 张", len(repo.inserted))
	}

	ts := repo.inserted[0]
	tomorrow := domain.DateOnly(time.Now().AddDate(0, 0, 1))
	if !ts.Date.Equal(tomorrow) {
		t.Errorf("生成的值班表日期应为明天，实际为 %v", ts.Date)
	}
	if ts.ID == "ts-template" {
		t.Error("生成的值班表应有新的 id")
	}

	if len(ts.Groups) != 1 || ts.Groups[0].Name != "前台" || ts.Groups[0].Color != "#4f46e5" {
		t.Fatalf("分组结构应沿用模板，实际为 %+v", ts.Groups)
	}
	if ts.Groups[0].ID == "g-1" {
		t.Error("分组应有新的 id")
	}

	shift := ts.Groups[0].SubGroups[0].Shifts[0]
	if shift.StartTime != "09:00" || shift.EndTime != "13:00" || shift.Role != "收银" {
		t.Errorf("班次的时间和岗位应沿用模板，实际为 %+v", shift)
	}
	if shift.EmployeeID == nil || *shift.EmployeeID != 42 {
		t.Errorf("班次的员工指派应沿用模板，实际为 %v", shift.EmployeeID)
	}
	if shift.Status != domain.ShiftStatusAssigned {
		t.Errorf("班次状态应重置为 assigned，实际为 %q", shift.Status)
	}
	if shift.ActualStartTime != nil || shift.ActualEndTime != nil || shift.Notes != "" {
		t.Error("打卡记录和备注应被清空")
	}
}

func TestMaterializeNextSkipsWhenTomorrowExists(t *testing.T) {
	repo := newMockTimesheetRepository()
	tomorrow := domain.DateOnly(time.Now().AddDate(0, 0, 1))
	repo.timesheets[tomorrow.Format("2006-01-02")] = templateTimesheet(tomorrow)

	materializer := NewMaterializer(repo, discardLogger())
	if err := materializer.MaterializeNext(); err != nil {
		t.Fatalf("生成次日值班表失败: %v", err)
	}

	if len(repo.inserted) != 0 {
		t.Errorf("次日值班表已存在时不应再插入，实际插入 %d 张", len(repo.inserted))
	}
}

func TestMaterializeNextSkipsWhenNoTemplate(t *testing.T) {
	repo := newMockTimesheetRepository()

	materializer := NewMaterializer(repo, discardLogger())
	if err := materializer.MaterializeNext(); err != nil {
		t.Fatalf("库为空时不应报错: %v", err)
	}

	if len(repo.inserted) != 0 {
		t.Errorf("没有模板时不应插入任何值班表，实际插入 %d 张", len(repo.inserted))
	}
}
