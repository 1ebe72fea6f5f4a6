package domain

import "time"

// ShiftStatus 是班次状态的规范枚举
type ShiftStatus string

const (
	ShiftStatusAssigned   ShiftStatus = "assigned"
	ShiftStatusSwapped    ShiftStatus = "swapped"
	ShiftStatusInProgress ShiftStatus = "in-progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

// Shift 是值班表中的一个班次，由且仅由一个 SubGroup 持有
type Shift struct {
	ID              string      `json:"id"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	Role            string      `json:"role"`
	EmployeeID      *int64      `json:"employeeID"`
	Status          ShiftStatus `json:"status"`
	ActualStartTime *time.Time  `json:"actualStartTime"`
	ActualEndTime   *time.Time  `json:"actualEndTime"`
	Notes           string      `json:"notes"`
}

type SubGroup struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Shifts []Shift `json:"shifts"`
}

type Group struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color"`
	SubGroups []SubGroup `json:"subGroups"`
}

// Timesheet 是一天的值班表聚合，分组 → 子分组 → 班次构成一棵独占的树。
// 对叶子班次的修改必须走克隆-替换：外部持有的旧引用永远不会观察到半修改状态。
type Timesheet struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Groups    []Group   `json:"groups"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// Clone 返回整棵聚合树的独立深拷贝
func (t *Timesheet) Clone() *Timesheet {
	clone := &Timesheet{
		ID:        t.ID,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		Version:   t.Version,
		Groups:    make([]Group, len(t.Groups)),
	}

	for i, group := range t.Groups {
		cloneGroup := Group{
			ID:        group.ID,
			Name:      group.Name,
			Color:     group.Color,
			SubGroups: make([]SubGroup, len(group.SubGroups)),
		}

		for j, subGroup := range group.SubGroups {
			cloneSubGroup := SubGroup{
				ID:     subGroup.ID,
				Name:   subGroup.Name,
				Shifts: make([]Shift, len(subGroup.Shifts)),
			}

			for k, shift := range subGroup.Shifts {
				cloneShift := shift
				if shift.EmployeeID != nil {
					employeeID := *shift.EmployeeID
					cloneShift.EmployeeID = &employeeID
				}
				if shift.ActualStartTime != nil {
					actualStartTime := *shift.ActualStartTime
					cloneShift.ActualStartTime = &actualStartTime
				}
				if shift.ActualEndTime != nil {
					actualEndTime := *shift.ActualEndTime
					cloneShift.ActualEndTime = &actualEndTime
				}
				cloneSubGroup.Shifts[k] = cloneShift
			}

			cloneGroup.SubGroups[j] = cloneSubGroup
		}

		clone.Groups[i] = cloneGroup
	}

	return clone
}
