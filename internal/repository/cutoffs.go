package repository

import (
	"context"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// GetActiveCutoff 返回当前生效的锁定边界，不存在时返回 sql.ErrNoRows
func (r *Repository) GetActiveCutoff() (*domain.CutoffRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, cutoff_date, is_active, created_at
		FROM availability_cutoffs
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	cutoff := &domain.CutoffRecord{}
	dst := []any{&cutoff.ID, &cutoff.CutoffDate, &cutoff.IsActive, &cutoff.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(dst...); err != nil {
		return nil, err
	}

	cutoff.CutoffDate = domain.DateOnly(cutoff.CutoffDate)

	return cutoff, nil
}

// ReplaceActiveCutoff 在单个事务中停用所有生效的锁定边界并插入新的一条，
// 保证"任意时刻最多一条生效记录"这一不变量在并发写入下也成立。
func (r *Repository) ReplaceActiveCutoff(date time.Time) (*domain.CutoffRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE availability_cutoffs SET is_active = FALSE WHERE is_active = TRUE`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return nil, err
	}

	cutoff := &domain.CutoffRecord{
		CutoffDate: domain.DateOnly(date),
		IsActive:   true,
	}

	query = `
		INSERT INTO availability_cutoffs (cutoff_date, is_active)
		VALUES ($1, TRUE)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, cutoff.CutoffDate).Scan(&cutoff.ID, &cutoff.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return cutoff, nil
}

// DeactivateCutoffs 停用所有生效的锁定边界，相当于完全解除锁定
func (r *Repository) DeactivateCutoffs() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `UPDATE availability_cutoffs SET is_active = FALSE WHERE is_active = TRUE`
	if _, err := r.dbpool.ExecContext(ctx, query); err != nil {
		return err
	}

	return nil
}
