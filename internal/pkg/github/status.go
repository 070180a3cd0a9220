package github

import "time"

// Status 仓库活跃状态
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusWarning  Status = "warning"
	StatusInactive Status = "inactive"
)

// 活跃阈值是产品策略常量，边界含在更好的一档
const (
	ActiveThresholdDays  = 7
	WarningThresholdDays = 14
)

// CalculateStatus 纯函数：最近提交时间 → 活跃状态
// nil 表示仓库从未成功检查过（或没有提交）
func CalculateStatus(lastCommitDate *time.Time) Status {
	return CalculateStatusAt(lastCommitDate, time.Now())
}

// CalculateStatusAt 以给定时刻为基准做判定
func CalculateStatusAt(lastCommitDate *time.Time, now time.Time) Status {
	if lastCommitDate == nil {
		return StatusPending
	}

	days := now.Sub(*lastCommitDate).Hours() / 24

	switch {
	case days <= ActiveThresholdDays:
		return StatusActive
	case days <= WarningThresholdDays:
		return StatusWarning
	default:
		return StatusInactive
	}
}
