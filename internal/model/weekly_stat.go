package model

import "time"

// WeeklyStat 以 (user_id, week) 为键的周统计
// week 形如 "2024-01"，由 util.WeekIdentifier 生成
// 全表同一周最多只有一行 is_viber = true
type WeeklyStat struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_user_week"`
	Week   string `gorm:"type:varchar(8);not null;uniqueIndex:idx_user_week"`

	CommitCount     int  `gorm:"not null;default:0"`
	ActiveRepoCount int  `gorm:"not null;default:0"`
	Score           int  `gorm:"not null;default:0"`
	IsViber         bool `gorm:"type:tinyint(1);default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WeeklyStat) TableName() string {
	return "weekly_stats"
}
