package repository

import (
	"VibeHub/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type RepoRepo interface {
	GetRepositoryById(ctx context.Context, id uint64) (*model.Repository, error)
	GetRepositoriesByUser(ctx context.Context, userID uint64) ([]*model.Repository, error)
	GetRepositoryByUserAndName(ctx context.Context, userID uint64, fullName string) (*model.Repository, error)
	CreateRepository(ctx context.Context, repo *model.Repository) error
	UpdateRepository(ctx context.Context, id uint64, updates map[string]interface{}) (*model.Repository, error)
	DeleteRepository(ctx context.Context, id uint64) error
}

type RepoRepoImpl struct {
	db *gorm.DB
}

func NewRepoRepo(db *gorm.DB) RepoRepo {
	return &RepoRepoImpl{db: db}
}

func (s *RepoRepoImpl) GetRepositoryById(ctx context.Context, id uint64) (*model.Repository, error) {
	repo := &model.Repository{}
	result := s.db.WithContext(ctx).First(repo, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return repo, nil
}

func (s *RepoRepoImpl) GetRepositoriesByUser(ctx context.Context, userID uint64) ([]*model.Repository, error) {
	repos := make([]*model.Repository, 0)
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&repos)
	if result.Error != nil {
		return nil, result.Error
	}
	return repos, nil
}

func (s *RepoRepoImpl) GetRepositoryByUserAndName(ctx context.Context, userID uint64, fullName string) (*model.Repository, error) {
	repo := &model.Repository{}
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND full_name = ?", userID, fullName).
		First(repo)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return repo, nil
}

func (s *RepoRepoImpl) CreateRepository(ctx context.Context, repo *model.Repository) error {
	return s.db.WithContext(ctx).Create(repo).Error
}

// UpdateRepository 局部更新，单行写入在存储层是原子的
func (s *RepoRepoImpl) UpdateRepository(ctx context.Context, id uint64, updates map[string]interface{}) (*model.Repository, error) {
	result := s.db.WithContext(ctx).
		Model(&model.Repository{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return s.GetRepositoryById(ctx, id)
}

func (s *RepoRepoImpl) DeleteRepository(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Repository{}, id).Error
}
