package utils

import (
	"fmt"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// ValidateTimeSlots 检查每个时间段的格式是否为 HH:MM 且开始时间严格早于结束时间。
// 不满足的输入必须整体拒绝，而不是悄悄落库。
func ValidateTimeSlots(slots []domain.TimeSlot) error {
	for i, slot := range slots {
		startTime, err := time.Parse("15:04", slot.StartTime)
		if err != nil {
			return fmt.Errorf("时间段 %d 的开始时间格式错误", i+1)
		}
		endTime, err := time.Parse("15:04", slot.EndTime)
		if err != nil {
			return fmt.Errorf("时间段 %d 的结束时间格式错误", i+1)
		}
		if !startTime.Before(endTime) {
			return fmt.Errorf("时间段 %d 的开始时间必须早于结束时间", i+1)
		}
	}
	return nil
}

// ValidatePresetTimeSlots 检查预设模板中的时间段以及适用星期是否合法
func ValidatePresetTimeSlots(slots []domain.PresetTimeSlot) error {
	for i, slot := range slots {
		startTime, err := time.Parse("15:04", slot.StartTime)
		if err != nil {
			return fmt.Errorf("时间段 %d 的开始时间格式错误", i+1)
		}
		endTime, err := time.Parse("15:04", slot.EndTime)
		if err != nil {
			return fmt.Errorf("时间段 %d 的结束时间格式错误", i+1)
		}
		if !startTime.Before(endTime) {
			return fmt.Errorf("时间段 %d 的开始时间必须早于结束时间", i+1)
		}
		for _, day := range slot.DaysOfWeek {
			if day < 1 || day > 7 {
				return fmt.Errorf("时间段 %d 的适用星期 %d 不合法", i+1, day)
			}
		}
	}
	return nil
}

// ValidateShiftTime 检查班次的时间格式及先后关系
func ValidateShiftTime(shift *domain.Shift) error {
	startTime, err := time.Parse("15:04", shift.StartTime)
	if err != nil {
		return fmt.Errorf("班次开始时间格式错误")
	}
	endTime, err := time.Parse("15:04", shift.EndTime)
	if err != nil {
		return fmt.Errorf("班次结束时间格式错误")
	}
	if !startTime.Before(endTime) {
		return fmt.Errorf("班次开始时间必须早于结束时间")
	}
	return nil
}
