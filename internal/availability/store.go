package availability

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"github.com/staffhub-dev/roster-manager/backend/internal/utils"
)

// Repository 是空闲记录的持久化接口，由 repository.Repository 实现
type Repository interface {
	GetMonthAvailabilities(employeeID int64, year int, month time.Month) ([]*domain.DayAvailability, error)
	GetDayAvailability(employeeID int64, date time.Time) (*domain.DayAvailability, error)
	UpsertDayAvailability(availability *domain.DayAvailability) error
	DeleteDayAvailability(employeeID int64, date time.Time) (bool, error)
	GetPresetByID(id int64) (*domain.AvailabilityPreset, error)
}

// RangeResult 是区间写入的结果：实际写入的记录和因锁定而跳过的日期分开报告，
// 调用方能够明确知道哪些天没有生效。
type RangeResult struct {
	Written       []*domain.DayAvailability `json:"written"`
	SkippedLocked []time.Time               `json:"skippedLocked"`
}

type monthKey struct {
	employeeID int64
	year       int
	month      time.Month
}

// Store 是空闲记录的读写入口，持有一份按月的内存缓存。
// 缓存由 Store 独占：任何写入之后受影响的月份条目都会被整体替换而不是原地修改，
// 保证外部持有的旧切片不会观察到变化。
type Store struct {
	repo Repository
	gate *Gate

	mu    sync.Mutex
	cache map[monthKey][]*domain.DayAvailability
}

func NewStore(repo Repository, gate *Gate) *Store {
	return &Store{
		repo:  repo,
		gate:  gate,
		cache: make(map[monthKey][]*domain.DayAvailability),
	}
}

// GetMonth 返回某个员工在指定自然月内的所有空闲记录，按日期升序，
// 没有记录时返回空切片。结果优先取自内存缓存。
func (s *Store) GetMonth(employeeID int64, year int, month time.Month) ([]*domain.DayAvailability, error) {
	key := monthKey{employeeID: employeeID, year: year, month: month}

	s.mu.Lock()
	if cached, exists := s.cache[key]; exists {
		result := slices.Clone(cached)
		s.mu.Unlock()
		return result, nil
	}
	s.mu.Unlock()

	availabilities, err := s.repo.GetMonthAvailabilities(employeeID, year, month)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = slices.Clone(availabilities)
	s.mu.Unlock()

	return availabilities, nil
}

// GetDay 返回某个员工某一天的空闲记录，不存在时返回 nil（不算错误）
func (s *Store) GetDay(employeeID int64, date time.Time) (*domain.DayAvailability, error) {
	availability, err := s.repo.GetDayAvailability(employeeID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return availability, nil
}

// SetRange 对 [start, end] 区间内的每一天写入空闲记录：
//   - 被锁定的日期跳过并记录在 SkippedLocked 中，不会中断整个区间；
//   - 其余日期按 (employeeID, date) 键 upsert，时间段列表整体替换；
//   - 时间段状态先规范化，整天状态由时间段重新推导；
//   - 空的时间段列表表示删除这一天的记录。
//
// 任何时间段不满足"开始早于结束"都会在写入前整体拒绝。
func (s *Store) SetRange(employeeID int64, start time.Time, end time.Time, slots []domain.TimeSlot, notes string) (*RangeResult, error) {
	startDate := domain.DateOnly(start)
	endDate := domain.DateOnly(end)
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}

	if err := utils.ValidateTimeSlots(slots); err != nil {
		return nil, err
	}

	// 规范化状态，写入时每一天都会拿到这份模板的独立拷贝
	normalized := make([]domain.TimeSlot, len(slots))
	for i, slot := range slots {
		normalized[i] = domain.TimeSlot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    domain.NormalizeAvailabilityStatus(string(slot.Status)),
		}
	}
	dayStatus := domain.AggregateDayStatus(normalized)

	cutoff, err := s.gate.ActiveCutoff()
	if err != nil {
		return nil, err
	}

	result := &RangeResult{
		Written:       make([]*domain.DayAvailability, 0),
		SkippedLocked: make([]time.Time, 0),
	}

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if cutoff != nil && date.Before(cutoff.CutoffDate) {
			result.SkippedLocked = append(result.SkippedLocked, date)
			continue
		}

		if len(normalized) == 0 {
			deleted, err := s.repo.DeleteDayAvailability(employeeID, date)
			if err != nil {
				return nil, err
			}
			if deleted {
				s.replaceCacheEntry(employeeID, date, nil)
			}
			continue
		}

		availability := &domain.DayAvailability{
			EmployeeID: employeeID,
			Date:       date,
			Status:     dayStatus,
			Notes:      notes,
			TimeSlots:  slices.Clone(normalized),
		}

		if err := s.repo.UpsertDayAvailability(availability); err != nil {
			return nil, err
		}

		result.Written = append(result.Written, availability)
		s.replaceCacheEntry(employeeID, date, availability)
	}

	return result, nil
}

// DeleteDay 删除某个员工某一天的空闲记录。
// 日期被锁定或记录不存在时返回 false 且不做任何修改。
func (s *Store) DeleteDay(employeeID int64, date time.Time) (bool, error) {
	locked, err := s.gate.IsLocked(date)
	if err != nil {
		return false, err
	}
	if locked {
		return false, nil
	}

	deleted, err := s.repo.DeleteDayAvailability(employeeID, date)
	if err != nil {
		return false, err
	}
	if deleted {
		s.replaceCacheEntry(employeeID, domain.DateOnly(date), nil)
	}

	return deleted, nil
}

// ApplyPreset 把预设模板应用到日期区间：每一天先按适用星期过滤模板中的时间段，
// 没有任何时间段适用的日期整体跳过，其余日期逐天委托给 SetRange 写入，
// 备注统一为 "Applied preset: <预设名>"。
func (s *Store) ApplyPreset(employeeID int64, presetID int64, start time.Time, end time.Time) (*RangeResult, error) {
	preset, err := s.repo.GetPresetByID(presetID)
	if err != nil {
		return nil, err
	}

	startDate := domain.DateOnly(start)
	endDate := domain.DateOnly(end)
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("结束日期不能早于开始日期")
	}

	notes := fmt.Sprintf("Applied preset: %s", preset.Name)

	result := &RangeResult{
		Written:       make([]*domain.DayAvailability, 0),
		SkippedLocked: make([]time.Time, 0),
	}

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		weekday := domain.ISOWeekday(date)

		daySlots := make([]domain.TimeSlot, 0, len(preset.TimeSlots))
		for _, template := range preset.TimeSlots {
			// 适用星期为空表示每天都适用
			if len(template.DaysOfWeek) > 0 && !slices.Contains(template.DaysOfWeek, weekday) {
				continue
			}
			daySlots = append(daySlots, domain.TimeSlot{
				StartTime: template.StartTime,
				EndTime:   template.EndTime,
				Status:    template.Status,
			})
		}

		// 这一天没有任何时间段适用，整体跳过（不算锁定跳过）
		if len(daySlots) == 0 {
			continue
		}

		dayResult, err := s.SetRange(employeeID, date, date, daySlots, notes)
		if err != nil {
			return nil, err
		}

		result.Written = append(result.Written, dayResult.Written...)
		result.SkippedLocked = append(result.SkippedLocked, dayResult.SkippedLocked...)
	}

	return result, nil
}

// replaceCacheEntry 用整体替换的方式更新受影响月份的缓存条目：
// 先剔除同日期的旧记录，再插入新记录（availability 为 nil 表示删除），
// 永远构造新切片而不是原地修改。
func (s *Store) replaceCacheEntry(employeeID int64, date time.Time, availability *domain.DayAvailability) {
	key := monthKey{employeeID: employeeID, year: date.Year(), month: date.Month()}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached, exists := s.cache[key]
	if !exists {
		return
	}

	updated := make([]*domain.DayAvailability, 0, len(cached)+1)
	for _, record := range cached {
		if record.Date.Equal(date) {
			continue
		}
		updated = append(updated, record)
	}
	if availability != nil {
		updated = append(updated, availability)
		slices.SortFunc(updated, func(a, b *domain.DayAvailability) int {
			return a.Date.Compare(b.Date)
		})
	}

	s.cache[key] = updated
}
