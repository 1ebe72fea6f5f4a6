package domain

import (
	"testing"
	"time"
)

func makeTimesheet() *Timesheet {
	employeeID := int64(42)
	actualStart := time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)

	return &Timesheet{
		ID:   "ts-1",
		Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Groups: []Group{
			{
				ID:   "g-1",
				Name: "前台",
				SubGroups: []SubGroup{
					{
						ID:   "sg-1",
						Name: "早班组",
						Shifts: []Shift{
							{
								ID:              "s-1",
								StartTime:       "09:00",
								EndTime:         "13:00",
								Role:            "收银",
								EmployeeID:      &employeeID,
								Status:          ShiftStatusInProgress,
								ActualStartTime: &actualStart,
							},
						},
					},
				},
			},
		},
	}
}

func TestTimesheetCloneIsIndependent(t *testing.T) {
	original := makeTimesheet()
	clone := original.Clone()

	// 修改克隆的班次
	shift := &clone.Groups[0].SubGroups[0].Shifts[0]
	shift.Status = ShiftStatusCompleted
	newEmployeeID := int64(99)
	shift.EmployeeID = &newEmployeeID
	*shift.ActualStartTime = shift.ActualStartTime.Add(time.Hour)
	clone.Groups[0].Name = "仓库"

	originalShift := original.Groups[0].SubGroups[0].Shifts[0]
	if originalShift.Status != ShiftStatusInProgress {
		t.Errorf("修改克隆不应影响原值班表的班次状态，实际变成了 %q", originalShift.Status)
	}
	if *originalShift.EmployeeID != 42 {
		t.Errorf("修改克隆不应影响原值班表的员工指派，实际变成了 %d", *originalShift.EmployeeID)
	}
	if !originalShift.ActualStartTime.Equal(time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)) {
		t.Errorf("修改克隆不应影响原值班表的打卡时间，实际变成了 %v", originalShift.ActualStartTime)
	}
	if original.Groups[0].Name != "前台" {
		t.Errorf("修改克隆不应影响原值班表的分组名称，实际变成了 %q", original.Groups[0].Name)
	}
}

func TestTimesheetClonePreservesContent(t *testing.T) {
	original := makeTimesheet()
	clone := original.Clone()

	if clone.ID != original.ID || !clone.Date.Equal(original.Date) {
		t.Fatalf("克隆应保留值班表的标识和日期")
	}
	if len(clone.Groups) != 1 || len(clone.Groups[0].SubGroups) != 1 || len(clone.Groups[0].SubGroups[0].Shifts) != 1 {
		t.Fatalf("克隆应保留整棵聚合树的结构")
	}

	shift := clone.Groups[0].SubGroups[0].Shifts[0]
	if shift.ID != "s-1" || shift.Status != ShiftStatusInProgress || *shift.EmployeeID != 42 {
		t.Errorf("克隆应保留班次内容，实际为 %+v", shift)
	}
}
