package dto

import "time"

type UserDTO struct {
	UserID           uint64     `json:"user_id"`
	GithubID         int64      `json:"github_id"`
	Username         string     `json:"username"`
	Email            *string    `json:"email,omitempty"`
	Name             *string    `json:"name,omitempty"`
	AvatarURL        *string    `json:"avatar_url,omitempty"`
	NotificationPref string     `json:"notification_pref"`
	TelegramChatID   *int64     `json:"telegram_chat_id,omitempty"`
	OnVacation       bool       `json:"on_vacation"`
	VacationUntil    *time.Time `json:"vacation_until,omitempty"`
	IsAdmin          bool       `json:"is_admin"`
	LastActive       *time.Time `json:"last_active,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type UpdateUserDTO struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,max=100"`
	NotificationPref *string `json:"notification_pref,omitempty" validate:"omitempty,oneof=email telegram"`
	TelegramChatID   *int64  `json:"telegram_chat_id,omitempty"`
}

type VacationDTO struct {
	Until time.Time `json:"until" binding:"required"`
}
