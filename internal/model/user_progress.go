package model

import "time"

// UserProgress 与用户一一对应的成长统计
// total_commits / experience 只增不减，active_days / longest_streak 取历史最大值，
// level 永远由 experience 推导，不单独维护
type UserProgress struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_progress_user"`

	TotalCommits  int64 `gorm:"not null;default:0"`
	ActiveDays    int   `gorm:"not null;default:0"`
	CurrentStreak int   `gorm:"not null;default:0"`
	LongestStreak int   `gorm:"not null;default:0"`
	Experience    int64 `gorm:"not null;default:0"`
	Level         int   `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserProgress) TableName() string {
	return "user_progress"
}
