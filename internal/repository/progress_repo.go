package repository

import (
	"VibeHub/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProgressRepo interface {
	GetByUserId(ctx context.Context, userID uint64) (*model.UserProgress, error)
	Create(ctx context.Context, progress *model.UserProgress) error
	Save(ctx context.Context, progress *model.UserProgress) error
}

type ProgressRepoImpl struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return &ProgressRepoImpl{db: db}
}

func (s *ProgressRepoImpl) GetByUserId(ctx context.Context, userID uint64) (*model.UserProgress, error) {
	progress := &model.UserProgress{}
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(progress)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return progress, nil
}

func (s *ProgressRepoImpl) Create(ctx context.Context, progress *model.UserProgress) error {
	return s.db.WithContext(ctx).Create(progress).Error
}

// Save 整行回写，累加/取最大的语义由 service 层保证
func (s *ProgressRepoImpl) Save(ctx context.Context, progress *model.UserProgress) error {
	return s.db.WithContext(ctx).
		Model(&model.UserProgress{}).
		Where("id = ?", progress.ID).
		Updates(map[string]interface{}{
			"total_commits":  progress.TotalCommits,
			"active_days":    progress.ActiveDays,
			"current_streak": progress.CurrentStreak,
			"longest_streak": progress.LongestStreak,
			"experience":     progress.Experience,
			"level":          progress.Level,
		}).Error
}
