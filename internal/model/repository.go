package model

import (
	"time"
)

// Repository 用户登记的 GitHub 仓库
// full_name 只在单个用户内唯一，不同用户可以登记同一个仓库（fork/镜像）
type Repository struct {
	ID       uint64 `gorm:"primaryKey"`
	UserID   uint64 `gorm:"not null;uniqueIndex:idx_user_repo"`
	FullName string `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_repo"`

	LastCommitDate *time.Time
	LastCommitSha  *string `gorm:"type:varchar(64)"`

	// Status pending 只出现在首次成功检查之前
	Status string `gorm:"type:varchar(16);not null;default:pending"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Repository) TableName() string {
	return "repositories"
}
