package roster

import (
	"database/sql"
	"errors"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// Repository 是值班表聚合的持久化接口，由 repository.Repository 实现
type Repository interface {
	GetTimesheetByDate(date time.Time) (*domain.Timesheet, error)
	UpdateTimesheet(ts *domain.Timesheet) error
}

// MutateShiftFunc 对定位到的班次做纯变换，返回 false 表示前置条件不满足，
// 此时整个操作不产生任何写入。
type MutateShiftFunc func(shift *domain.Shift) bool

// Mutator 负责对值班表聚合中嵌套的班次做克隆-替换式修改：
// 每次修改都在整棵树的深拷贝上进行，然后整体落库，
// 持有旧引用的读者永远不会看到半修改的结构。
type Mutator struct {
	repo Repository
}

func NewMutator(repo Repository) *Mutator {
	return &Mutator{
		repo: repo,
	}
}

// UpdateShift 按 groupID → subGroupID → shiftID 的 id 链定位某一天值班表中的班次，
// 在深拷贝上应用 mutate 后把整个聚合写回并返回。
// 值班表不存在、id 链中任何一环找不到、或 mutate 的前置条件不满足时返回 (nil, nil)，
// 这些都是预期内的可恢复结果而不是错误；此时已存储的聚合保持原样。
func (m *Mutator) UpdateShift(date time.Time, groupID string, subGroupID string, shiftID string, mutate MutateShiftFunc) (*domain.Timesheet, error) {
	ts, err := m.repo.GetTimesheetByDate(date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	clone := ts.Clone()

	shift := findShift(clone, groupID, subGroupID, shiftID)
	if shift == nil {
		return nil, nil
	}

	if !mutate(shift) {
		return nil, nil
	}

	if err := m.repo.UpdateTimesheet(clone); err != nil {
		return nil, err
	}

	return clone, nil
}

func findShift(ts *domain.Timesheet, groupID string, subGroupID string, shiftID string) *domain.Shift {
	for i := range ts.Groups {
		if ts.Groups[i].ID != groupID {
			continue
		}
		group := &ts.Groups[i]

		for j := range group.SubGroups {
			if group.SubGroups[j].ID != subGroupID {
				continue
			}
			subGroup := &group.SubGroups[j]

			for k := range subGroup.Shifts {
				if subGroup.Shifts[k].ID == shiftID {
					return &subGroup.Shifts[k]
				}
			}
			return nil
		}
		return nil
	}
	return nil
}

// SetShiftStatus 无条件覆盖班次状态
func (m *Mutator) SetShiftStatus(date time.Time, groupID string, subGroupID string, shiftID string, status domain.ShiftStatus) (*domain.Timesheet, error) {
	return m.UpdateShift(date, groupID, subGroupID, shiftID, func(shift *domain.Shift) bool {
		shift.Status = status
		return true
	})
}

// ClockIn 打卡上班：仅允许 assigned 或 swapped 状态的班次，
// 记录实际开始时间并把状态置为 in-progress。
func (m *Mutator) ClockIn(date time.Time, groupID string, subGroupID string, shiftID string, at time.Time) (*domain.Timesheet, error) {
	return m.UpdateShift(date, groupID, subGroupID, shiftID, func(shift *domain.Shift) bool {
		if shift.Status != domain.ShiftStatusAssigned && shift.Status != domain.ShiftStatusSwapped {
			return false
		}
		shift.ActualStartTime = &at
		shift.Status = domain.ShiftStatusInProgress
		return true
	})
}

// ClockOut 打卡下班：仅允许已经打过上班卡的班次，
// 记录实际结束时间并把状态置为 completed。
func (m *Mutator) ClockOut(date time.Time, groupID string, subGroupID string, shiftID string, at time.Time) (*domain.Timesheet, error) {
	return m.UpdateShift(date, groupID, subGroupID, shiftID, func(shift *domain.Shift) bool {
		if shift.ActualStartTime == nil {
			return false
		}
		shift.ActualEndTime = &at
		shift.Status = domain.ShiftStatusCompleted
		return true
	})
}

// SwapShift 换班：重新指派员工，状态置为 swapped，
// 并清空实际上下班时间（换班总是重置打卡记录）。
func (m *Mutator) SwapShift(date time.Time, groupID string, subGroupID string, shiftID string, newEmployeeID int64) (*domain.Timesheet, error) {
	return m.UpdateShift(date, groupID, subGroupID, shiftID, func(shift *domain.Shift) bool {
		shift.EmployeeID = &newEmployeeID
		shift.Status = domain.ShiftStatusSwapped
		shift.ActualStartTime = nil
		shift.ActualEndTime = nil
		return true
	})
}

// CancelShift 取消班次，可选的原因存入备注
func (m *Mutator) CancelShift(date time.Time, groupID string, subGroupID string, shiftID string, reason string) (*domain.Timesheet, error) {
	return m.UpdateShift(date, groupID, subGroupID, shiftID, func(shift *domain.Shift) bool {
		shift.Status = domain.ShiftStatusCancelled
		if reason != "" {
			shift.Notes = reason
		}
		return true
	})
}
