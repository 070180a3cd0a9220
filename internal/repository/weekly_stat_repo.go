package repository

import (
	"VibeHub/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyStatRepo interface {
	GetByUser(ctx context.Context, userID uint64) ([]*model.WeeklyStat, error)
	GetByUserAndWeek(ctx context.Context, userID uint64, week string) (*model.WeeklyStat, error)
	GetByWeek(ctx context.Context, week string) ([]*model.WeeklyStat, error)
	Upsert(ctx context.Context, stat *model.WeeklyStat) error
	ClearVibers(ctx context.Context, week string) error
	SetViber(ctx context.Context, userID uint64, week string) error
}

type WeeklyStatRepoImpl struct {
	db *gorm.DB
}

func NewWeeklyStatRepo(db *gorm.DB) WeeklyStatRepo {
	return &WeeklyStatRepoImpl{db: db}
}

func (s *WeeklyStatRepoImpl) GetByUser(ctx context.Context, userID uint64) ([]*model.WeeklyStat, error) {
	stats := make([]*model.WeeklyStat, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week DESC").
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

func (s *WeeklyStatRepoImpl) GetByUserAndWeek(ctx context.Context, userID uint64, week string) (*model.WeeklyStat, error) {
	stat := &model.WeeklyStat{}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND week = ?", userID, week).
		First(stat)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return stat, nil
}

// GetByWeek 当周全量，按得分降序，周榜展示用
func (s *WeeklyStatRepoImpl) GetByWeek(ctx context.Context, week string) ([]*model.WeeklyStat, error) {
	stats := make([]*model.WeeklyStat, 0)
	result := s.db.WithContext(ctx).
		Where("week = ?", week).
		Order("score DESC, user_id ASC").
		Find(&stats)
	if result.Error != nil {
		return nil, result.Error
	}
	return stats, nil
}

// Upsert 以 (user_id, week) 为冲突键
func (s *WeeklyStatRepoImpl) Upsert(ctx context.Context, stat *model.WeeklyStat) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"commit_count", "active_repo_count", "score", "updated_at"}),
	}).Create(stat).Error
}

// ClearVibers 清掉指定周的全部 Viber 标记，保证单冠军不变式
func (s *WeeklyStatRepoImpl) ClearVibers(ctx context.Context, week string) error {
	return s.db.WithContext(ctx).
		Model(&model.WeeklyStat{}).
		Where("week = ? AND is_viber = ?", week, true).
		Update("is_viber", false).Error
}

func (s *WeeklyStatRepoImpl) SetViber(ctx context.Context, userID uint64, week string) error {
	return s.db.WithContext(ctx).
		Model(&model.WeeklyStat{}).
		Where("user_id = ? AND week = ?", userID, week).
		Update("is_viber", true).Error
}
