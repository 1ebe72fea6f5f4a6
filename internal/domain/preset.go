package domain

import "time"

// PresetTimeSlot 是预设中的时间段模板，没有具体日期。
// DaysOfWeek 为适用的星期（1=周一 ... 7=周日），为空表示每天都适用。
type PresetTimeSlot struct {
	ID         string             `json:"id"`
	StartTime  string             `json:"startTime"`
	EndTime    string             `json:"endTime"`
	Status     AvailabilityStatus `json:"status"`
	DaysOfWeek []int32            `json:"daysOfWeek"`
}

// AvailabilityPreset 是可复用的空闲时间模板，应用到日期区间时
// 会展开为每个符合条件的日期各一条 DayAvailability 写入。
type AvailabilityPreset struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	TimeSlots []PresetTimeSlot `json:"timeSlots"`
	CreatedAt time.Time        `json:"createdAt"`
	Version   int32            `json:"-"`
}

// ISOWeekday 把 time.Weekday 转成 1=周一 ... 7=周日 的编号
func ISOWeekday(t time.Time) int32 {
	wd := int32(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
