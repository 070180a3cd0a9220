package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/model"
	"VibeHub/internal/repository"
	"context"

	"github.com/jinzhu/copier"
)

const (
	// ExperiencePerLevel 每级所需经验，level 永远由 experience 推导
	ExperiencePerLevel = 100
	// ExperiencePerCommit 每条新提交折算的经验值
	ExperiencePerCommit = 10
)

type ProgressService interface {
	GetProgress(ctx context.Context, userID uint64) (*dto.ProgressDTO, error)
	UpdateStats(ctx context.Context, userID uint64, delta *dto.ProgressDeltaDTO) (*dto.ProgressDTO, error)
}

type ProgressServiceImpl struct {
	progressRepo repository.ProgressRepo
}

func NewProgressService(progressRepo repository.ProgressRepo) ProgressService {
	return &ProgressServiceImpl{progressRepo: progressRepo}
}

func (s *ProgressServiceImpl) GetProgress(ctx context.Context, userID uint64) (*dto.ProgressDTO, error) {
	progress, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProgressDTO(progress)
}

// UpdateStats 合并一次增量：
//   - commits / experience 累加，只增不减
//   - active_days 取历史最大值
//   - current_streak 直接覆盖（断签归零），longest_streak 随之取最大
//   - level 每次由 experience 重新推导
func (s *ProgressServiceImpl) UpdateStats(ctx context.Context, userID uint64, delta *dto.ProgressDeltaDTO) (*dto.ProgressDTO, error) {
	progress, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if delta.Commits != nil && *delta.Commits > 0 {
		progress.TotalCommits += *delta.Commits
	}
	if delta.ActiveDays != nil && *delta.ActiveDays > progress.ActiveDays {
		progress.ActiveDays = *delta.ActiveDays
	}
	if delta.CurrentStreak != nil {
		progress.CurrentStreak = *delta.CurrentStreak
		if progress.CurrentStreak > progress.LongestStreak {
			progress.LongestStreak = progress.CurrentStreak
		}
	}
	if delta.Experience != nil && *delta.Experience > 0 {
		progress.Experience += *delta.Experience
	}
	progress.Level = int(progress.Experience/ExperiencePerLevel) + 1

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		return nil, err
	}

	return toProgressDTO(progress)
}

func (s *ProgressServiceImpl) getOrCreate(ctx context.Context, userID uint64) (*model.UserProgress, error) {
	progress, err := s.progressRepo.GetByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &model.UserProgress{
			UserID: userID,
			Level:  1,
		}
		if err := s.progressRepo.Create(ctx, progress); err != nil {
			return nil, err
		}
	}
	return progress, nil
}

func toProgressDTO(progress *model.UserProgress) (*dto.ProgressDTO, error) {
	progressDTO := &dto.ProgressDTO{}
	if err := copier.Copy(progressDTO, progress); err != nil {
		return nil, err
	}
	return progressDTO, nil
}
