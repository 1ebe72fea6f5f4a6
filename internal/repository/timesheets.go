package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// GetTimesheetByDate 加载某一天的完整值班表聚合（分组 → 子分组 → 班次），
// 不存在时返回 sql.ErrNoRows。
func (r *Repository) GetTimesheetByDate(date time.Time) (*domain.Timesheet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, created_at, version
		FROM timesheets
		WHERE date = $1
	`

	ts := &domain.Timesheet{
		Date:   domain.DateOnly(date),
		Groups: make([]domain.Group, 0),
	}

	if err := r.dbpool.QueryRowContext(ctx, query, domain.DateOnly(date)).Scan(&ts.ID, &ts.CreatedAt, &ts.Version); err != nil {
		return nil, err
	}

	query = `
		SELECT
			g.id,
			g.name,
			g.color,
			sg.id,
			sg.name,
			s.id,
			s.start_time,
			s.end_time,
			s.role,
			s.employee_id,
			s.status,
			s.actual_start_time,
			s.actual_end_time,
			s.notes
		FROM timesheet_groups g
		LEFT JOIN timesheet_sub_groups sg ON g.id = sg.group_id
		LEFT JOIN timesheet_shifts s ON sg.id = s.sub_group_id
		WHERE g.timesheet_id = $1
		ORDER BY g.position, sg.position, s.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ts.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groupsMap := make(map[string]*domain.Group)
	subGroupsMap := make(map[string]*domain.SubGroup)
	groupOrder := make([]string, 0)
	subGroupOrder := make(map[string][]string) // groupID -> subGroupID 出现顺序

	for rows.Next() {
		var row struct {
			GroupID    string
			GroupName  string
			GroupColor string

			SubGroupID   sql.NullString
			SubGroupName sql.NullString

			ShiftID         sql.NullString
			StartTime       sql.NullString
			EndTime         sql.NullString
			Role            sql.NullString
			EmployeeID      sql.NullInt64
			Status          sql.NullString
			ActualStartTime sql.NullTime
			ActualEndTime   sql.NullTime
			Notes           sql.NullString
		}

		dst := []any{
			&row.GroupID,
			&row.GroupName,
			&row.GroupColor,
			&row.SubGroupID,
			&row.SubGroupName,
			&row.ShiftID,
			&row.StartTime,
			&row.EndTime,
			&row.Role,
			&row.EmployeeID,
			&row.Status,
			&row.ActualStartTime,
			&row.ActualEndTime,
			&row.Notes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := groupsMap[row.GroupID]; !exists {
			groupsMap[row.GroupID] = &domain.Group{
				ID:        row.GroupID,
				Name:      row.GroupName,
				Color:     row.GroupColor,
				SubGroups: make([]domain.SubGroup, 0),
			}
			groupOrder = append(groupOrder, row.GroupID)
		}

		// SubGroupID 为空表示这个分组下没有任何子分组
		if !row.SubGroupID.Valid {
			continue
		}

		if _, exists := subGroupsMap[row.SubGroupID.String]; !exists {
			subGroupsMap[row.SubGroupID.String] = &domain.SubGroup{
				ID:     row.SubGroupID.String,
				Name:   row.SubGroupName.String,
				Shifts: make([]domain.Shift, 0),
			}
			subGroupOrder[row.GroupID] = append(subGroupOrder[row.GroupID], row.SubGroupID.String)
		}

		// ShiftID 为空表示这个子分组下没有任何班次
		if !row.ShiftID.Valid {
			continue
		}

		shift := domain.Shift{
			ID:        row.ShiftID.String,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			Role:      row.Role.String,
			Status:    domain.ShiftStatus(row.Status.String),
			Notes:     row.Notes.String,
		}
		if row.EmployeeID.Valid {
			employeeID := row.EmployeeID.Int64
			shift.EmployeeID = &employeeID
		}
		if row.ActualStartTime.Valid {
			actualStartTime := row.ActualStartTime.Time
			shift.ActualStartTime = &actualStartTime
		}
		if row.ActualEndTime.Valid {
			actualEndTime := row.ActualEndTime.Time
			shift.ActualEndTime = &actualEndTime
		}

		subGroup := subGroupsMap[row.SubGroupID.String]
		subGroup.Shifts = append(subGroup.Shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 组装聚合树
	for _, groupID := range groupOrder {
		group := groupsMap[groupID]
		for _, subGroupID := range subGroupOrder[groupID] {
			group.SubGroups = append(group.SubGroups, *subGroupsMap[subGroupID])
		}
		ts.Groups = append(ts.Groups, *group)
	}

	return ts, nil
}

// GetLatestTimesheet 返回日期最新的一张值班表，用于次日值班表的自动生成
func (r *Repository) GetLatestTimesheet() (*domain.Timesheet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT date FROM timesheets ORDER BY date DESC LIMIT 1
	`

	var date time.Time
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&date); err != nil {
		return nil, err
	}

	return r.GetTimesheetByDate(date)
}

// InsertTimesheet 插入一张全新的值班表聚合，date 上的唯一约束保证每天只有一张
func (r *Repository) InsertTimesheet(ts *domain.Timesheet) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if ts.ID == "" {
		ts.ID = uuid.NewString()
	}

	query := `
		INSERT INTO timesheets (id, date)
		VALUES ($1, $2)
		RETURNING created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, ts.ID, domain.DateOnly(ts.Date)).Scan(&ts.CreatedAt, &ts.Version); err != nil {
		return err
	}

	if err := insertTimesheetTree(ctx, tx, ts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateTimesheet 整体替换值班表聚合：先按乐观版本号更新父记录，
// 再删除整棵旧树并重新插入（级联删除子分组和班次）。
func (r *Repository) UpdateTimesheet(ts *domain.Timesheet) error {
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
		UPDATE timesheets
		SET version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, ts.ID, ts.Version).Scan(&ts.Version); err != nil {
		return err
	}

	query = `DELETE FROM timesheet_groups WHERE timesheet_id = $1`
	if _, err := tx.ExecContext(ctx, query, ts.ID); err != nil {
		return err
	}

	if err := insertTimesheetTree(ctx, tx, ts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertTimesheetTree(ctx context.Context, tx *sql.Tx, ts *domain.Timesheet) error {
	for i := range ts.Groups {
		group := &ts.Groups[i]
		if group.ID == "" {
			group.ID = uuid.NewString()
		}

		query := `
			INSERT INTO timesheet_groups (id, timesheet_id, name, color, position)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, group.ID, ts.ID, group.Name, group.Color, i); err != nil {
			return err
		}

		for j := range group.SubGroups {
			subGroup := &group.SubGroups[j]
			if subGroup.ID == "" {
				subGroup.ID = uuid.NewString()
			}

			query := `
				INSERT INTO timesheet_sub_groups (id, group_id, name, position)
				VALUES ($1, $2, $3, $4)
			`
			if _, err := tx.ExecContext(ctx, query, subGroup.ID, group.ID, subGroup.Name, j); err != nil {
				return err
			}

			for k := range subGroup.Shifts {
				shift := &subGroup.Shifts[k]
				if shift.ID == "" {
					shift.ID = uuid.NewString()
				}

				query := `
					INSERT INTO timesheet_shifts (
						id,
						sub_group_id,
						start_time,
						end_time,
						role,
						employee_id,
						status,
						actual_start_time,
						actual_end_time,
						notes
					) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				`
				args := []any{
					shift.ID,
					subGroup.ID,
					shift.StartTime,
					shift.EndTime,
					shift.Role,
					shift.EmployeeID,
					shift.Status,
					shift.ActualStartTime,
					shift.ActualEndTime,
					shift.Notes,
				}
				if _, err := tx.ExecContext(ctx, query, args...); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
