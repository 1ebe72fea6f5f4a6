package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

func (r *Repository) GetAllPresets() ([]*domain.AvailabilityPreset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			p.id,
			p.name,
			p.created_at,
			p.version,
			pts.id,
			pts.start_time,
			pts.end_time,
			pts.status,
			ptsd.day_of_week
		FROM availability_presets p
		LEFT JOIN preset_time_slots pts ON p.id = pts.preset_id
		LEFT JOIN preset_time_slot_days ptsd ON pts.id = ptsd.slot_id
		ORDER BY p.id, pts.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presetsMap := make(map[int64]*domain.AvailabilityPreset)
	slotsMap := make(map[int64]map[string]*domain.PresetTimeSlot) // presetID -> slotID -> slot
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			Name      string
			CreatedAt time.Time
			Version   int32

			SlotID    sql.NullString
			StartTime sql.NullString
			EndTime   sql.NullString
			Status    sql.NullString
			DayOfWeek sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Name,
			&row.CreatedAt,
			&row.Version,
			&row.SlotID,
			&row.StartTime,
			&row.EndTime,
			&row.Status,
			&row.DayOfWeek,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := presetsMap[row.ID]; !exists {
			presetsMap[row.ID] = &domain.AvailabilityPreset{
				ID:        row.ID,
				Name:      row.Name,
				CreatedAt: row.CreatedAt,
				Version:   row.Version,
			}
			slotsMap[row.ID] = make(map[string]*domain.PresetTimeSlot)
			order = append(order, row.ID)
		}

		// SlotID 为空表示这个预设没有任何时间段模板
		if !row.SlotID.Valid {
			continue
		}

		slot, exists := slotsMap[row.ID][row.SlotID.String]
		if !exists {
			slot = &domain.PresetTimeSlot{
				ID:         row.SlotID.String,
				StartTime:  row.StartTime.String,
				EndTime:    row.EndTime.String,
				Status:     domain.AvailabilityStatus(row.Status.String),
				DaysOfWeek: make([]int32, 0),
			}
			slotsMap[row.ID][row.SlotID.String] = slot
		}

		// DayOfWeek 为空表示这个时间段适用于每一天
		if !row.DayOfWeek.Valid {
			continue
		}

		slot.DaysOfWeek = append(slot.DaysOfWeek, row.DayOfWeek.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	presets := make([]*domain.AvailabilityPreset, 0, len(order))
	for _, presetID := range order {
		preset := presetsMap[presetID]
		preset.TimeSlots = make([]domain.PresetTimeSlot, 0, len(slotsMap[presetID]))
		for _, slot := range slotsMap[presetID] {
			preset.TimeSlots = append(preset.TimeSlots, *slot)
		}
		presets = append(presets, preset)
	}

	return presets, nil
}

func (r *Repository) GetPresetByID(id int64) (*domain.AvailabilityPreset, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, created_at, version
		FROM availability_presets
		WHERE id = $1
	`

	preset := &domain.AvailabilityPreset{
		ID:        id,
		TimeSlots: make([]domain.PresetTimeSlot, 0),
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&preset.Name, &preset.CreatedAt, &preset.Version); err != nil {
		return nil, err
	}

	query = `
		SELECT
			pts.id,
			pts.start_time,
			pts.end_time,
			pts.status,
			ptsd.day_of_week
		FROM preset_time_slots pts
		LEFT JOIN preset_time_slot_days ptsd ON pts.id = ptsd.slot_id
		WHERE pts.preset_id = $1
		ORDER BY pts.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slotsMap := make(map[string]*domain.PresetTimeSlot)
	order := make([]string, 0)

	for rows.Next() {
		var row struct {
			SlotID    string
			StartTime string
			EndTime   string
			Status    string
			DayOfWeek sql.NullInt32
		}

		if err := rows.Scan(&row.SlotID, &row.StartTime, &row.EndTime, &row.Status, &row.DayOfWeek); err != nil {
			return nil, err
		}

		slot, exists := slotsMap[row.SlotID]
		if !exists {
			slot = &domain.PresetTimeSlot{
				ID:         row.SlotID,
				StartTime:  row.StartTime,
				EndTime:    row.EndTime,
				Status:     domain.AvailabilityStatus(row.Status),
				DaysOfWeek: make([]int32, 0),
			}
			slotsMap[row.SlotID] = slot
			order = append(order, row.SlotID)
		}

		if !row.DayOfWeek.Valid {
			continue
		}

		slot.DaysOfWeek = append(slot.DaysOfWeek, row.DayOfWeek.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, slotID := range order {
		preset.TimeSlots = append(preset.TimeSlots, *slotsMap[slotID])
	}

	return preset, nil
}

func (r *Repository) CreatePreset(preset *domain.AvailabilityPreset) error {
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
		INSERT INTO availability_presets (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, preset.Name).Scan(&preset.ID, &preset.CreatedAt, &preset.Version); err != nil {
		return err
	}

	for i := range preset.TimeSlots {
		slot := &preset.TimeSlots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}

		query := `
			INSERT INTO preset_time_slots (id, preset_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, slot.ID, preset.ID, slot.StartTime, slot.EndTime, slot.Status); err != nil {
			return err
		}

		for _, day := range slot.DaysOfWeek {
			query := `
				INSERT INTO preset_time_slot_days (slot_id, day_of_week)
				VALUES ($1, $2)
			`
			if _, err := tx.ExecContext(ctx, query, slot.ID, day); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePreset(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM availability_presets WHERE id = $1
	`

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
