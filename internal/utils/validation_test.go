package utils

import (
	"testing"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

func TestValidateTimeSlots(t *testing.T) {
	cases := []struct {
		name    string
		slots   []domain.TimeSlot
		wantErr bool
	}{
		{
			name:    "空列表合法",
			slots:   nil,
			wantErr: false,
		},
		{
			name: "正常时间段",
			slots: []domain.TimeSlot{
				{StartTime: "09:00", EndTime: "17:00"},
			},
			wantErr: false,
		},
		{
			name: "开始时间格式错误",
			slots: []domain.TimeSlot{
				{StartTime: "9am", EndTime: "17:00"},
			},
			wantErr: true,
		},
		{
			name: "结束时间格式错误",
			slots: []domain.TimeSlot{
				{StartTime: "09:00", EndTime: "25:00"},
			},
			wantErr: true,
		},
		{
			name: "开始等于结束",
			slots: []domain.TimeSlot{
				{StartTime: "09:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "开始晚于结束",
			slots: []domain.TimeSlot{
				{StartTime: "17:00", EndTime: "09:00"},
			},
			wantErr: true,
		},
		{
			name: "混合列表中有一个非法即整体拒绝",
			slots: []domain.TimeSlot{
				{StartTime: "09:00", EndTime: "12:00"},
				{StartTime: "13:00", EndTime: "13:00"},
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateTimeSlots(c.slots)
			if (err != nil) != c.wantErr {
				t.Errorf("校验结果错误：期望出错=%v，实际 err=%v", c.wantErr, err)
			}
		})
	}
}

func TestValidatePresetTimeSlots(t *testing.T) {
	cases := []struct {
		name    string
		slots   []domain.PresetTimeSlot
		wantErr bool
	}{
		{
			name: "合法的工作日模板",
			slots: []domain.PresetTimeSlot{
				{StartTime: "09:00", EndTime: "17:00", DaysOfWeek: []int32{1, 2, 3, 4, 5}},
			},
			wantErr: false,
		},
		{
			name: "适用星期为空也合法",
			slots: []domain.PresetTimeSlot{
				{StartTime: "09:00", EndTime: "17:00"},
			},
			wantErr: false,
		},
		{
			name: "星期 0 非法",
			slots: []domain.PresetTimeSlot{
				{StartTime: "09:00", EndTime: "17:00", DaysOfWeek: []int32{0}},
			},
			wantErr: true,
		},
		{
			name: "星期 8 非法",
			slots: []domain.PresetTimeSlot{
				{StartTime: "09:00", EndTime: "17:00", DaysOfWeek: []int32{8}},
			},
			wantErr: true,
		},
		{
			name: "时间先后关系同样检查",
			slots: []domain.PresetTimeSlot{
				{StartTime: "17:00", EndTime: "09:00", DaysOfWeek: []int32{1}},
			},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidatePresetTimeSlots(c.slots)
			if (err != nil) != c.wantErr {
				t.Errorf("校验结果错误：期望出错=%v，实际 err=%v", c.wantErr, err)
			}
		})
	}
}

func TestValidateShiftTime(t *testing.T) {
	if err := ValidateShiftTime(&domain.Shift{StartTime: "09:00", EndTime: "13:00"}); err != nil {
		t.Errorf("合法班次不应报错: %v", err)
	}
	if err := ValidateShiftTime(&domain.Shift{StartTime: "13:00", EndTime: "09:00"}); err == nil {
		t.Error("开始晚于结束的班次应报错")
	}
	if err := ValidateShiftTime(&domain.Shift{StartTime: "13:00", EndTime: "bad"}); err == nil {
		t.Error("时间格式错误的班次应报错")
	}
}
