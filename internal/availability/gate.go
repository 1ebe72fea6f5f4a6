package availability

import (
	"database/sql"
	"errors"
	"time"

	"github.com/staffhub-dev/roster-manager/backend/internal/domain"
)

// CutoffRepository 是锁定边界的持久化接口，由 repository.Repository 实现
type CutoffRepository interface {
	GetActiveCutoff() (*domain.CutoffRecord, error)
	ReplaceActiveCutoff(date time.Time) (*domain.CutoffRecord, error)
	DeactivateCutoffs() error
}

// Gate 是空闲记录的锁定闸门：早于生效 cutoff 日期的日期一律拒绝修改。
// 所有修改空闲记录的操作都必须先经过这里。
type Gate struct {
	repo CutoffRepository
}

func NewGate(repo CutoffRepository) *Gate {
	return &Gate{
		repo: repo,
	}
}

// ActiveCutoff 返回当前生效的锁定边界，不存在时返回 nil（不算错误）
func (g *Gate) ActiveCutoff() (*domain.CutoffRecord, error) {
	cutoff, err := g.repo.GetActiveCutoff()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cutoff, nil
}

// IsLocked 判断某一天是否被锁定：当且仅当存在生效的 cutoff 且该日期严格早于
// cutoff 日期时为 true，比较只看日期不看时间。
func (g *Gate) IsLocked(date time.Time) (bool, error) {
	cutoff, err := g.ActiveCutoff()
	if err != nil {
		return false, err
	}
	if cutoff == nil {
		return false, nil
	}
	return domain.DateOnly(date).Before(cutoff.CutoffDate), nil
}

// SetCutoff 设置新的锁定边界：date 非空时在单个事务中替换生效记录，
// 为空时停用所有生效记录（完全解除锁定）。
func (g *Gate) SetCutoff(date *time.Time) (*domain.CutoffRecord, error) {
	if date == nil {
		if err := g.repo.DeactivateCutoffs(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return g.repo.ReplaceActiveCutoff(*date)
}
