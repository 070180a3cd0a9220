package dto

type ProgressDTO struct {
	UserID        uint64 `json:"user_id"`
	TotalCommits  int64  `json:"total_commits"`
	ActiveDays    int    `json:"active_days"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Experience    int64  `json:"experience"`
	Level         int    `json:"level"`
}

// ProgressDeltaDTO 成长统计增量，nil 字段不参与本次更新
// commits / experience 做累加，active_days / streak 按各自规则合并
type ProgressDeltaDTO struct {
	Commits       *int64 `json:"commits,omitempty"`
	ActiveDays    *int   `json:"active_days,omitempty"`
	CurrentStreak *int   `json:"current_streak,omitempty"`
	Experience    *int64 `json:"experience,omitempty"`
}

type WeeklyStatDTO struct {
	UserID          uint64 `json:"user_id"`
	Week            string `json:"week"`
	CommitCount     int    `json:"commit_count"`
	ActiveRepoCount int    `json:"active_repo_count"`
	Score           int    `json:"score"`
	IsViber         bool   `json:"is_viber"`
}

type LeaderboardEntryDTO struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	IsViber  bool   `json:"is_viber"`
}
