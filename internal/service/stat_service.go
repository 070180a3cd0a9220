package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/pkg/util"
	"VibeHub/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

// StatService 周榜与周统计的查询入口
type StatService interface {
	GetLeaderboard(ctx context.Context, week string) ([]*dto.LeaderboardEntryDTO, error)
	GetCurrentViber(ctx context.Context) (*dto.LeaderboardEntryDTO, error)
	GetUserWeeklyStats(ctx context.Context, userID uint64) ([]*dto.WeeklyStatDTO, error)
}

type StatServiceImpl struct {
	userRepo   repository.UserRepo
	weeklyRepo repository.WeeklyStatRepo
}

func NewStatService(userRepo repository.UserRepo, weeklyRepo repository.WeeklyStatRepo) StatService {
	return &StatServiceImpl{
		userRepo:   userRepo,
		weeklyRepo: weeklyRepo,
	}
}

// GetLeaderboard 指定周的得分榜，week 为空时取当前周
func (s *StatServiceImpl) GetLeaderboard(ctx context.Context, week string) ([]*dto.LeaderboardEntryDTO, error) {
	if week == "" {
		week = util.WeekIdentifier(time.Now())
	}

	stats, err := s.weeklyRepo.GetByWeek(ctx, week)
	if err != nil {
		return nil, err
	}

	usernames, err := s.usernameIndex(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]*dto.LeaderboardEntryDTO, 0, len(stats))
	for _, stat := range stats {
		entries = append(entries, &dto.LeaderboardEntryDTO{
			UserID:   stat.UserID,
			Username: usernames[stat.UserID],
			Score:    stat.Score,
			IsViber:  stat.IsViber,
		})
	}
	return entries, nil
}

// GetCurrentViber 本周冠军，还没评出来时返回 nil
func (s *StatServiceImpl) GetCurrentViber(ctx context.Context) (*dto.LeaderboardEntryDTO, error) {
	entries, err := s.GetLeaderboard(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsViber {
			return entry, nil
		}
	}
	return nil, nil
}

func (s *StatServiceImpl) GetUserWeeklyStats(ctx context.Context, userID uint64) ([]*dto.WeeklyStatDTO, error) {
	stats, err := s.weeklyRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.WeeklyStatDTO, 0, len(stats))
	for _, stat := range stats {
		statDTO := &dto.WeeklyStatDTO{}
		if err := copier.Copy(statDTO, stat); err != nil {
			return nil, err
		}
		result = append(result, statDTO)
	}
	return result, nil
}

func (s *StatServiceImpl) usernameIndex(ctx context.Context) (map[uint64]string, error) {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[uint64]string, len(users))
	for _, user := range users {
		index[user.ID] = user.Username
	}
	return index, nil
}
