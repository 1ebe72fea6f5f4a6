package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/config"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
	"github.com/staffhub-dev/roster-manager/backend/internal/repository"
	"github.com/staffhub-dev/roster-manager/backend/internal/utils"
)

// SeedDemoData 一次性生成一套可以直接演示的数据：
// 若干员工、两个空闲预设、本月每位员工的空闲记录，以及今天的值班表。
func SeedDemoData(r *repository.Repository, cfg *config.Config, employeeCount int) {
	employees := SeedEmployees(r, cfg, employeeCount)
	SeedPresets(r, 2)
	SeedAvailabilities(r, employees)
	SeedTimesheet(r, employees, domain.DateOnly(time.Now()))
}

// SeedEmployees 插入 n 个随机员工并返回成功插入的员工
func SeedEmployees(r *repository.Repository, cfg *config.Config, n int) []*domain.Employee {
	employees := make([]*domain.Employee, 0, n)
	for i := 0; i < n; i++ {
		employee, err := utils.GenerateRandomEmployee(cfg.Seed.Employee.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}

		if err := r.CreateEmployee(employee); err != nil {
			// 随机姓名可能撞出重复用户名，跳过即可
			slog.Error("无法插入员工", "error", err)
			continue
		}

		employees = append(employees, employee)
	}

	slog.Info("插入员工完成", "count", len(employees))
	return employees
}

// SeedPresets 插入 n 个随机空闲预设
func SeedPresets(r *repository.Repository, n int) {
	cnt := 0
	for i := 0; i < n; i++ {
		preset := utils.GenerateRandomPreset()
		if err := r.CreatePreset(preset); err != nil {
			slog.Error("无法插入预设", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("插入预设完成", "count", cnt)
}

// SeedAvailabilities 为每位员工生成本月每一天的随机空闲记录，
// 大约三成的日期留空以模拟尚未填写的情况。
func SeedAvailabilities(r *repository.Repository, employees []*domain.Employee) {
	now := time.Now()
	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := firstDay.AddDate(0, 1, -1).Day()

	cnt := 0
	for _, employee := range employees {
		for day := 0; day < daysInMonth; day++ {
			if rand.Intn(10) < 3 {
				continue
			}

			availability := utils.GenerateRandomDayAvailability(employee.ID, firstDay.AddDate(0, 0, day))
			if err := r.UpsertDayAvailability(availability); err != nil {
				slog.Error("无法插入空闲记录", "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入空闲记录完成", "count", cnt)
}

// SeedTimesheet 为指定日期生成一张随机值班表
func SeedTimesheet(r *repository.Repository, employees []*domain.Employee, date time.Time) {
	employeeIDs := make([]int64, 0, len(employees))
	for _, employee := range employees {
		employeeIDs = append(employeeIDs, employee.ID)
	}

	ts := utils.GenerateRandomTimesheet(date, employeeIDs)
	if err := r.InsertTimesheet(ts); err != nil {
		slog.Error("无法插入值班表", "error", err)
		return
	}

	slog.Info("插入值班表完成", "date", date.Format("2006-01-02"), "id", ts.ID)
}
