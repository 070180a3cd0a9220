package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	GithubID  int64   `gorm:"not null;uniqueIndex:idx_github_id"`
	Username  string  `gorm:"type:varchar(100);not null"`
	Email     *string `gorm:"type:varchar(255)"`
	Name      *string `gorm:"type:varchar(100)"`
	AvatarURL *string `gorm:"type:varchar(512)"`

	// AccessToken 落库前已加密，为空表示无法代表该用户调 GitHub
	AccessToken *string `gorm:"type:varchar(1024)"`

	NotificationPref string `gorm:"type:varchar(16);not null;default:email"`
	TelegramChatID   *int64

	OnVacation    bool `gorm:"type:tinyint(1);default:0"`
	VacationUntil *time.Time

	IsAdmin    bool `gorm:"type:tinyint(1);default:0"`
	LastActive *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Repositories []Repository `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}
