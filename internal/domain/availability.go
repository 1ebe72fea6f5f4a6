package domain

import (
	"strings"
	"time"
)

// AvailabilityStatus 是空闲状态的规范枚举。
// 历史上前端传过来的状态字符串有多种写法（"Available"、"available"、"On-Leave" 等），
// 这里的枚举是唯一的权威来源，所有入库的状态都必须先经过 NormalizeAvailabilityStatus。
type AvailabilityStatus string

const (
	StatusAvailable    AvailabilityStatus = "Available"
	StatusUnavailable  AvailabilityStatus = "Unavailable"
	StatusPartial      AvailabilityStatus = "Partial"
	StatusLimited      AvailabilityStatus = "Limited"
	StatusTentative    AvailabilityStatus = "Tentative"
	StatusOnLeave      AvailabilityStatus = "On Leave"
	StatusNotSpecified AvailabilityStatus = "Not Specified"
)

// statusAliases 收录所有历史命名方案，key 为折叠后的形式（小写、分隔符统一为空格）
var statusAliases = map[string]AvailabilityStatus{
	"available":           StatusAvailable,
	"unavailable":         StatusUnavailable,
	"not available":       StatusUnavailable,
	"partial":             StatusPartial,
	"partially available": StatusPartial,
	"limited":             StatusLimited,
	"tentative":           StatusTentative,
	"on leave":            StatusOnLeave,
	"leave":               StatusOnLeave,
	"not specified":       StatusNotSpecified,
	"unspecified":         StatusNotSpecified,
}

// NormalizeAvailabilityStatus 将任意自由格式的状态字符串映射到规范枚举。
// 这是一个全函数：无法识别的输入一律映射为 StatusNotSpecified，绝不报错。
func NormalizeAvailabilityStatus(s string) AvailabilityStatus {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")

	if status, exists := statusAliases[key]; exists {
		return status
	}
	return StatusNotSpecified
}

// AggregateDayStatus 由时间段集合推导出整天的状态：
// 空集合视为 Available（没有记录任何限制），全部 Available 为 Available，
// 全部 Unavailable 为 Unavailable，其余情况一律为 Partial。
// 整天状态永远在写入时重新计算，不允许独立于时间段单独维护。
func AggregateDayStatus(slots []TimeSlot) AvailabilityStatus {
	if len(slots) == 0 {
		return StatusAvailable
	}

	allAvailable := true
	allUnavailable := true
	for _, slot := range slots {
		if slot.Status != StatusAvailable {
			allAvailable = false
		}
		if slot.Status != StatusUnavailable {
			allUnavailable = false
		}
	}

	switch {
	case allAvailable:
		return StatusAvailable
	case allUnavailable:
		return StatusUnavailable
	default:
		return StatusPartial
	}
}

// TimeSlot 是一天之内的一个时间段，时间格式为 HH:MM
type TimeSlot struct {
	ID        string             `json:"id"`
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	Status    AvailabilityStatus `json:"status"`
}

// DayAvailability 表示某个员工在某一天的空闲情况，(EmployeeID, Date) 全局唯一
type DayAvailability struct {
	ID         int64              `json:"id"`
	EmployeeID int64              `json:"employeeID"`
	Date       time.Time          `json:"date"`
	Status     AvailabilityStatus `json:"status"`
	Notes      string             `json:"notes"`
	TimeSlots  []TimeSlot         `json:"timeSlots"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// DateOnly 去掉时间部分，所有按天比较的逻辑都必须先经过这个函数
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
