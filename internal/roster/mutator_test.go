package roster

import (
	"database/sql"
	"testing"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// mockTimesheetRepository 用内存 map 模拟值班表的持久化层
type mockTimesheetRepository struct {
	timesheets map[string]*domain.Timesheet
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

func (m *mockTimesheetRepository) UpdateTimesheet(ts *domain.Timesheet) error {
	m.timesheets[domain.DateOnly(ts.Date).Format("2006-01-02")] = ts
	return nil
}

func testDate() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func seedTimesheet(repo *mockTimesheetRepository, status domain.ShiftStatus) *domain.Timesheet {
	employeeID := int64(42)
	ts := &domain.Timesheet{
		ID:   "ts-1",
		Date: testDate(),
		Groups: []domain.Group{
			{
				ID:   "g-1",
				Name: "前台",
				SubGroups: []domain.SubGroup{
					{
						ID:   "sg-1",
						Name: "早班组",
						Shifts: []domain.Shift{
							{
								ID:         "s-1",
								StartTime:  "09:00",
								EndTime:    "13:00",
								Role:       "收银",
								EmployeeID: &employeeID,
								Status:     status,
							},
						},
					},
				},
			},
		},
	}
	repo.timesheets[ts.Date.Format("2006-01-02")] = ts
	return ts
}

func storedShift(repo *mockTimesheetRepository) *domain.Shift {
	ts := repo.timesheets[testDate().Format("2006-01-02")]
	return &ts.Groups[0].SubGroups[0].Shifts[0]
}

func TestUpdateShiftTimesheetNotFound(t *testing.T) {
	repo := newMockTimesheetRepository()
	mutator := NewMutator(repo)

	ts, err := mutator.SetShiftStatus(testDate(), "g-1", "sg-1", "s-1", domain.ShiftStatusCompleted)
	if err != nil {
		t.Fatalf("值班表不存在不应报错: %v", err)
	}
	if ts != nil {
		t.Error("值班表不存在应返回 nil")
	}
}

func TestUpdateShiftShiftNotFound(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	cases := []struct {
		name       string
		groupID    string
		subGroupID string
		shiftID    string
	}{
		{"分组不存在", "g-404", "sg-1", "s-1"},
		{"小组不存在", "g-1", "sg-404", "s-1"},
		{"班次不存在", "g-1", "sg-1", "s-404"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts, err := mutator.SetShiftStatus(testDate(), c.groupID, c.subGroupID, c.shiftID, domain.ShiftStatusCompleted)
			if err != nil {
				t.Fatalf("id 链断裂不应报错: %v", err)
			}
			if ts != nil {
				t.Error("id 链断裂应返回 nil")
			}
			if storedShift(repo).Status != domain.ShiftStatusAssigned {
				t.Error("定位失败时已存储的班次不应被修改")
			}
		})
	}
}

func TestClockIn(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	at := time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)
	ts, err := mutator.ClockIn(testDate(), "g-1", "sg-1", "s-1", at)
	if err != nil {
		t.Fatalf("打卡上班失败: %v", err)
	}
	if ts == nil {
		t.Fatal("打卡上班应返回更新后的值班表")
	}

	shift := ts.Groups[0].SubGroups[0].Shifts[0]
	if shift.Status != domain.ShiftStatusInProgress {
		t.Errorf("打卡后状态应为 in-progress，实际为 %q", shift.Status)
	}
	if shift.ActualStartTime == nil || !shift.ActualStartTime.Equal(at) {
		t.Errorf("实际开始时间应被记录，实际为 %v", shift.ActualStartTime)
	}
}

func TestClockInRejectsWrongStatus(t *testing.T) {
	for _, status := range []domain.ShiftStatus{
		domain.ShiftStatusInProgress,
		domain.ShiftStatusCompleted,
		domain.ShiftStatusCancelled,
	} {
		repo := newMockTimesheetRepository()
		seedTimesheet(repo, status)
		mutator := NewMutator(repo)

		ts, err := mutator.ClockIn(testDate(), "g-1", "sg-1", "s-1", time.Now())
		if err != nil {
			t.Fatalf("前置条件不满足不应报错: %v", err)
		}
		if ts != nil {
			t.Errorf("状态为 %q 的班次不应允许打卡上班", status)
		}
		if storedShift(repo).Status != status {
			t.Errorf("打卡被拒绝时已存储的班次不应被修改")
		}
	}
}

func TestClockOutRequiresClockIn(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	ts, err := mutator.ClockOut(testDate(), "g-1", "sg-1", "s-1", time.Now())
	if err != nil {
		t.Fatalf("前置条件不满足不应报错: %v", err)
	}
	if ts != nil {
		t.Error("没有打卡上班的班次不应允许打卡下班")
	}
	if storedShift(repo).ActualEndTime != nil {
		t.Error("打卡被拒绝时不应记录实际结束时间")
	}
}

func TestClockOutAfterClockIn(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 13, 5, 0, 0, time.UTC)

	if _, err := mutator.ClockIn(testDate(), "g-1", "sg-1", "s-1", start); err != nil {
		t.Fatalf("打卡上班失败: %v", err)
	}
	ts, err := mutator.ClockOut(testDate(), "g-1", "sg-1", "s-1", end)
	if err != nil {
		t.Fatalf("打卡下班失败: %v", err)
	}
	if ts == nil {
		t.Fatal("打卡下班应返回更新后的值班表")
	}

	shift := ts.Groups[0].SubGroups[0].Shifts[0]
	if shift.Status != domain.ShiftStatusCompleted {
		t.Errorf("下班后状态应为 completed，实际为 %q", shift.Status)
	}
	if shift.ActualEndTime == nil || !shift.ActualEndTime.Equal(end) {
		t.Errorf("实际结束时间应被记录，实际为 %v", shift.ActualEndTime)
	}
}

func TestSwapShiftClearsActualTimes(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	if _, err := mutator.ClockIn(testDate(), "g-1", "sg-1", "s-1", time.Now()); err != nil {
		t.Fatalf("打卡上班失败: %v", err)
	}

	ts, err := mutator.SwapShift(testDate(), "g-1", "sg-1", "s-1", 99)
	if err != nil {
		t.Fatalf("换班失败: %v", err)
	}
	if ts == nil {
		t.Fatal("换班应返回更新后的值班表")
	}

	shift := ts.Groups[0].SubGroups[0].Shifts[0]
	if shift.Status != domain.ShiftStatusSwapped {
		t.Errorf("换班后状态应为 swapped，实际为 %q", shift.Status)
	}
	if shift.EmployeeID == nil || *shift.EmployeeID != 99 {
		t.Errorf("换班后应指派给新员工，实际为 %v", shift.EmployeeID)
	}
	if shift.ActualStartTime != nil || shift.ActualEndTime != nil {
		t.Error("换班应清空打卡记录")
	}
}

func TestCancelShift(t *testing.T) {
	repo := newMockTimesheetRepository()
	seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	ts, err := mutator.CancelShift(testDate(), "g-1", "sg-1", "s-1", "员工请假")
	if err != nil {
		t.Fatalf("取消班次失败: %v", err)
	}
	if ts == nil {
		t.Fatal("取消班次应返回更新后的值班表")
	}

	shift := ts.Groups[0].SubGroups[0].Shifts[0]
	if shift.Status != domain.ShiftStatusCancelled {
		t.Errorf("取消后状态应为 cancelled，实际为 %q", shift.Status)
	}
	if shift.Notes != "员工请假" {
		t.Errorf("取消原因应存入备注，实际为 %q", shift.Notes)
	}
}

func TestCancelShiftWithoutReasonKeepsNotes(t *testing.T) {
	repo := newMockTimesheetRepository()
	ts := seedTimesheet(repo, domain.ShiftStatusAssigned)
	ts.Groups[0].SubGroups[0].Shifts[0].Notes = "原有备注"
	mutator := NewMutator(repo)

	updated, err := mutator.CancelShift(testDate(), "g-1", "sg-1", "s-1", "")
	if err != nil {
		t.Fatalf("取消班次失败: %v", err)
	}

	if updated.Groups[0].SubGroups[0].Shifts[0].Notes != "原有备注" {
		t.Error("没有给出原因时应保留原有备注")
	}
}

func TestUpdateShiftDoesNotMutateOldReference(t *testing.T) {
	repo := newMockTimesheetRepository()
	original := seedTimesheet(repo, domain.ShiftStatusAssigned)
	mutator := NewMutator(repo)

	updated, err := mutator.SetShiftStatus(testDate(), "g-1", "sg-1", "s-1", domain.ShiftStatusCompleted)
	if err != nil {
		t.Fatalf("更新班次状态失败: %v", err)
	}
	if updated == original {
		t.Fatal("更新应返回新的聚合而不是原对象")
	}

	if original.Groups[0].SubGroups[0].Shifts[0].Status != domain.ShiftStatusAssigned {
		t.Error("持有旧引用的读者不应观察到修改")
	}
	if updated.Groups[0].SubGroups[0].Shifts[0].Status != domain.ShiftStatusCompleted {
		t.Error("返回的新聚合应包含修改")
	}
}
