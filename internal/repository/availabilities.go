package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// GetMonthAvailabilities 返回某个员工在指定自然月内的所有空闲记录，按日期升序。
// 没有记录时返回空切片而不是错误。
func (r *Repository) GetMonthAvailabilities(employeeID int64, year int, month time.Month) ([]*domain.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := firstDay.AddDate(0, 1, 0)

	query := `
		SELECT
			a.id,
			a.date,
			a.status,
			a.notes,
			a.created_at,
			ats.id,
			ats.start_time,
			ats.end_time,
			ats.status
		FROM availabilities a
		LEFT JOIN availability_time_slots ats ON a.id = ats.availability_id
		WHERE a.employee_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date, ats.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, firstDay, nextMonth)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	availabilities := make([]*domain.DayAvailability, 0)
	availabilitiesMap := make(map[int64]*domain.DayAvailability)

	for rows.Next() {
		var row struct {
			ID        int64
			Date      time.Time
			Status    string
			Notes     string
			CreatedAt time.Time

			SlotID        sql.NullString
			SlotStartTime sql.NullString
			SlotEndTime   sql.NullString
			SlotStatus    sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.Date,
			&row.Status,
			&row.Notes,
			&row.CreatedAt,
			&row.SlotID,
			&row.SlotStartTime,
			&row.SlotEndTime,
			&row.SlotStatus,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		availability, exists := availabilitiesMap[row.ID]
		if !exists {
			availability = &domain.DayAvailability{
				ID:         row.ID,
				EmployeeID: employeeID,
				Date:       domain.DateOnly(row.Date),
				Status:     domain.AvailabilityStatus(row.Status),
				Notes:      row.Notes,
				TimeSlots:  make([]domain.TimeSlot, 0),
				CreatedAt:  row.CreatedAt,
			}
			availabilitiesMap[row.ID] = availability
			// 查询本身按日期排序，依靠首次出现的顺序维持结果的有序性
			availabilities = append(availabilities, availability)
		}

		// SlotID 为空表示这一天没有任何时间段，跳过时间段解析
		if !row.SlotID.Valid {
			continue
		}

		availability.TimeSlots = append(availability.TimeSlots, domain.TimeSlot{
			ID:        row.SlotID.String,
			StartTime: row.SlotStartTime.String,
			EndTime:   row.SlotEndTime.String,
			Status:    domain.AvailabilityStatus(row.SlotStatus.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return availabilities, nil
}

// GetDayAvailability 返回某个员工某一天的空闲记录，不存在时返回 sql.ErrNoRows
func (r *Repository) GetDayAvailability(employeeID int64, date time.Time) (*domain.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, status, notes, created_at
		FROM availabilities
		WHERE employee_id = $1 AND date = $2
	`

	availability := &domain.DayAvailability{
		EmployeeID: employeeID,
		Date:       domain.DateOnly(date),
		TimeSlots:  make([]domain.TimeSlot, 0),
	}

	dst := []any{&availability.ID, &availability.Status, &availability.Notes, &availability.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID, domain.DateOnly(date)).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT id, start_time, end_time, status
		FROM availability_time_slots
		WHERE availability_id = $1
		ORDER BY start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, availability.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot domain.TimeSlot
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.Status); err != nil {
			return nil, err
		}
		availability.TimeSlots = append(availability.TimeSlots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return availability, nil
}

// UpsertDayAvailability 以 (employee_id, date) 为键插入或覆盖一条空闲记录，
// 时间段列表整体替换：在同一个事务中先删除旧的时间段再插入新的。
func (r *Repository) UpsertDayAvailability(availability *domain.DayAvailability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO availabilities (employee_id, date, status, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status, notes = EXCLUDED.notes
		RETURNING id, created_at
	`
	args := []any{availability.EmployeeID, domain.DateOnly(availability.Date), availability.Status, availability.Notes}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&availability.ID, &availability.CreatedAt); err != nil {
		return err
	}

	query = `DELETE FROM availability_time_slots WHERE availability_id = $1`
	if _, err := tx.ExecContext(ctx, query, availability.ID); err != nil {
		return err
	}

	for i := range availability.TimeSlots {
		slot := &availability.TimeSlots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}

		query := `
			INSERT INTO availability_time_slots (id, availability_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, slot.ID, availability.ID, slot.StartTime, slot.EndTime, slot.Status); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeleteDayAvailability 删除某个员工某一天的空闲记录，时间段由外键级联删除。
// 返回是否真的删除了记录。
func (r *Repository) DeleteDayAvailability(employeeID int64, date time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM availabilities WHERE employee_id = $1 AND date = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, employeeID, domain.DateOnly(date))
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
