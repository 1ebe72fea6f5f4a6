package domain

import (
	"testing"
	"time"
)

func TestNormalizeAvailabilityStatus(t *testing.T) {
	cases := []struct {
		input    string
		expected AvailabilityStatus
	}{
		{"Available", StatusAvailable},
		{"available", StatusAvailable},
		{"AVAILABLE", StatusAvailable},
		{"  available  ", StatusAvailable},
		{"Unavailable", StatusUnavailable},
		{"not available", StatusUnavailable},
		{"Not-Available", StatusUnavailable},
		{"not_available", StatusUnavailable},
		{"Partial", StatusPartial},
		{"partially available", StatusPartial},
		{"Partially_Available", StatusPartial},
		{"Limited", StatusLimited},
		{"limited", StatusLimited},
		{"Tentative", StatusTentative},
		{"On Leave", StatusOnLeave},
		{"on-leave", StatusOnLeave},
		{"ON_LEAVE", StatusOnLeave},
		{"leave", StatusOnLeave},
		{"Not Specified", StatusNotSpecified},
		{"unspecified", StatusNotSpecified},
		{"", StatusNotSpecified},
		{"随便写的", StatusNotSpecified},
		{"sick day", StatusNotSpecified},
	}

	for _, c := range cases {
		if got := NormalizeAvailabilityStatus(c.input); got != c.expected {
			t.Errorf("输入 %q 规范化结果错误：期望 %q，实际 %q", c.input, c.expected, got)
		}
	}
}

func TestNormalizeAvailabilityStatusIdempotent(t *testing.T) {
	// 规范形式再走一遍规范化必须不变
	canonical := []AvailabilityStatus{
		StatusAvailable,
		StatusUnavailable,
		StatusPartial,
		StatusLimited,
		StatusTentative,
		StatusOnLeave,
		StatusNotSpecified,
	}

	for _, status := range canonical {
		if got := NormalizeAvailabilityStatus(string(status)); got != status {
			t.Errorf("规范化不是幂等的：%q 变成了 %q", status, got)
		}
	}
}

func TestAggregateDayStatus(t *testing.T) {
	cases := []struct {
		name     string
		slots    []TimeSlot
		expected AvailabilityStatus
	}{
		{
			name:     "没有时间段视为整天空闲",
			slots:    nil,
			expected: StatusAvailable,
		},
		{
			name: "全部空闲",
			slots: []TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
				{StartTime: "13:00", EndTime: "17:00", Status: StatusAvailable},
			},
			expected: StatusAvailable,
		},
		{
			name: "全部不空闲",
			slots: []TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusUnavailable},
				{StartTime: "13:00", EndTime: "17:00", Status: StatusUnavailable},
			},
			expected: StatusUnavailable,
		},
		{
			name: "混合状态",
			slots: []TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
				{StartTime: "13:00", EndTime: "17:00", Status: StatusUnavailable},
			},
			expected: StatusPartial,
		},
		{
			name: "包含待定也算部分空闲",
			slots: []TimeSlot{
				{StartTime: "09:00", EndTime: "12:00", Status: StatusTentative},
			},
			expected: StatusPartial,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AggregateDayStatus(c.slots); got != c.expected {
				t.Errorf("整天状态推导错误：期望 %q，实际 %q", c.expected, got)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	input := time.Date(2025, 3, 10, 15, 30, 45, 123, time.UTC)
	got := DateOnly(input)

	expected := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("日期截断错误：期望 %v，实际 %v", expected, got)
	}
}

func TestISOWeekday(t *testing.T) {
	// 2025-03-10 是周一，2025-03-16 是周日
	if got := ISOWeekday(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("周一的编号应为 1，实际为 %d", got)
	}
	if got := ISOWeekday(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)); got != 7 {
		t.Errorf("周日的编号应为 7，实际为 %d", got)
	}
}
