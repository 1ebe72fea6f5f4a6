package domain

import "time"

// CutoffRecord 是管理员设置的锁定边界：早于 CutoffDate 的日期不允许再修改空闲记录。
// 任意时刻最多只有一条记录的 IsActive 为 true。
type CutoffRecord struct {
	ID         int64     `json:"id"`
	CutoffDate time.Time `json:"cutoffDate"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}
