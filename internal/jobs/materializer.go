package jobs

import (
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// TimesheetRepository 是物化任务需要的持久化能力，由 repository.Repository 实现
type TimesheetRepository interface {
	GetTimesheetByDate(date time.Time) (*domain.Timesheet, error)
	GetLatestTimesheet() (*domain.Timesheet, error)
	InsertTimesheet(ts *domain.Timesheet) error
}

// Materializer 每天按 cron 表达式把次日的值班表从最近一张值班表的结构中生成出来：
// 分组、小组和班次的时间骨架保持不变，班次全部回到 assigned 状态。
// 这样值班表总是惰性地向前滚动，而不需要人工为每一天从零建表。
type Materializer struct {
	repo   TimesheetRepository
	cron   *cron.Cron
	logger *slog.Logger
}

func NewMaterializer(repo TimesheetRepository, logger *slog.Logger) *Materializer {
	return &Materializer{
		repo:   repo,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start 注册定时任务并启动调度器
func (m *Materializer) Start(spec string) error {
	if _, err := m.cron.AddFunc(spec, func() {
		if err := m.MaterializeNext(); err != nil {
			m.logger.Error("生成次日值班表失败", "error", err)
		}
	}); err != nil {
		return err
	}

	m.cron.Start()
	return nil
}

// Stop 停止调度器并等待正在运行的任务结束
func (m *Materializer) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

// MaterializeNext 生成明天的值班表。明天的值班表已经存在、
// 或者库中还没有任何可以作为模板的值班表时，直接跳过。
func (m *Materializer) MaterializeNext() error {
	tomorrow := domain.DateOnly(time.Now().AddDate(0, 0, 1))

	if _, err := m.repo.GetTimesheetByDate(tomorrow); err == nil {
		m.logger.Info("次日值班表已存在，跳过生成", "date", tomorrow.Format("2006-01-02"))
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	latest, err := m.repo.GetLatestTimesheet()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			m.logger.Info("库中没有可作为模板的值班表，跳过生成")
			return nil
		}
		return err
	}

	ts := materializeFrom(latest, tomorrow)
	if err := m.repo.InsertTimesheet(ts); err != nil {
		return err
	}

	m.logger.Info("生成次日值班表成功", "date", tomorrow.Format("2006-01-02"), "id", ts.ID)
	return nil
}

// materializeFrom 以 template 的结构为骨架生成指定日期的新值班表：
// 所有 id 重新生成，班次保留时间、岗位和员工指派，状态重置为 assigned，
// 打卡记录和备注清空。
func materializeFrom(template *domain.Timesheet, date time.Time) *domain.Timesheet {
	ts := &domain.Timesheet{
		ID:     uuid.NewString(),
		Date:   date,
		Groups: make([]domain.Group, 0, len(template.Groups)),
	}

	for _, group := range template.Groups {
		newGroup := domain.Group{
			ID:        uuid.NewString(),
			Name:      group.Name,
			Color:     group.Color,
			SubGroups: make([]domain.SubGroup, 0, len(group.SubGroups)),
		}

		for _, subGroup := range group.SubGroups {
			newSubGroup := domain.SubGroup{
				ID:     uuid.NewString(),
				Name:   subGroup.Name,
				Shifts: make([]domain.Shift, 0, len(subGroup.Shifts)),
			}

			for _, shift := range subGroup.Shifts {
				newShift := domain.Shift{
					ID:        uuid.NewString(),
					StartTime: shift.StartTime,
					EndTime:   shift.EndTime,
					Role:      shift.Role,
					Status:    domain.ShiftStatusAssigned,
				}
				if shift.EmployeeID != nil {
					employeeID := *shift.EmployeeID
					newShift.EmployeeID = &employeeID
				}
				newSubGroup.Shifts = append(newSubGroup.Shifts, newShift)
			}

			newGroup.SubGroups = append(newGroup.SubGroups, newSubGroup)
		}

		ts.Groups = append(ts.Groups, newGroup)
	}

	return ts
}
