package availability

import (
	"testing"
	"time"
)

func TestGateIsLockedBoundary(t *testing.T) {
	repo := newMockRepository()
	gate := NewGate(repo)

	if _, err := gate.SetCutoff(ptrTime(date("2025-03-15"))); err != nil {
		t.Fatalf("设置锁定边界失败: %v", err)
	}

	cases := []struct {
		date     string
		expected bool
	}{
		{"2025-03-14", true},  // 严格早于边界，锁定
		{"2025-03-15", false}, // 边界当天不锁定
		{"2025-03-16", false},
	}

	for _, c := range cases {
		locked, err := gate.IsLocked(date(c.date))
		if err != nil {
			t.Fatalf("判断锁定状态失败: %v", err)
		}
		if locked != c.expected {
			t.Errorf("日期 %s 的锁定状态错误：期望 %v，实际 %v", c.date, c.expected, locked)
		}
	}
}

func TestGateIsLockedIgnoresTimeOfDay(t *testing.T) {
	repo := newMockRepository()
	gate := NewGate(repo)

	if _, err := gate.SetCutoff(ptrTime(date("2025-03-15"))); err != nil {
		t.Fatalf("设置锁定边界失败: %v", err)
	}

	// 边界当天的任何时刻都不应锁定
	locked, err := gate.IsLocked(time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("判断锁定状态失败: %v", err)
	}
	if locked {
		t.Error("比较应只看日期不看时间")
	}
}

func TestGateNoActiveCutoff(t *testing.T) {
	repo := newMockRepository()
	gate := NewGate(repo)

	cutoff, err := gate.ActiveCutoff()
	if err != nil {
		t.Fatalf("读取锁定边界失败: %v", err)
	}
	if cutoff != nil {
		t.Error("没有生效的锁定边界时应返回 nil")
	}

	locked, err := gate.IsLocked(date("2000-01-01"))
	if err != nil {
		t.Fatalf("判断锁定状态失败: %v", err)
	}
	if locked {
		t.Error("没有锁定边界时任何日期都不应锁定")
	}
}

func TestGateSetCutoffReplacesActive(t *testing.T) {
	repo := newMockRepository()
	gate := NewGate(repo)

	if _, err := gate.SetCutoff(ptrTime(date("2025-03-10"))); err != nil {
		t.Fatalf("设置锁定边界失败: %v", err)
	}
	if _, err := gate.SetCutoff(ptrTime(date("2025-03-20"))); err != nil {
		t.Fatalf("替换锁定边界失败: %v", err)
	}

	cutoff, err := gate.ActiveCutoff()
	if err != nil {
		t.Fatalf("读取锁定边界失败: %v", err)
	}
	if cutoff == nil || !cutoff.CutoffDate.Equal(date("2025-03-20")) {
		t.Errorf("生效的锁定边界应为最新设置的 2025-03-20，实际为 %+v", cutoff)
	}
}

func TestGateSetCutoffNilUnlocksAll(t *testing.T) {
	repo := newMockRepository()
	gate := NewGate(repo)

	if _, err := gate.SetCutoff(ptrTime(date("2025-03-15"))); err != nil {
		t.Fatalf("设置锁定边界失败: %v", err)
	}
	if _, err := gate.SetCutoff(nil); err != nil {
		t.Fatalf("解除锁定边界失败: %v", err)
	}

	locked, err := gate.IsLocked(date("2025-03-01"))
	if err != nil {
		t.Fatalf("判断锁定状态失败: %v", err)
	}
	if locked {
		t.Error("解除锁定边界后任何日期都不应锁定")
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
