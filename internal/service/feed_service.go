package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/mongo"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

// FeedService 活动流查询，数据源是 mongo 的只追加集合
type FeedService interface {
	GetUserFeed(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*dto.FeedEntryDTO, error)
	GetRepositoryFeed(ctx context.Context, repoID uint64, before time.Time, pageSize int) ([]*dto.FeedEntryDTO, error)
}

type FeedServiceImpl struct {
	activityRepo mongo.ActivityRepo
}

func NewFeedService(activityRepo mongo.ActivityRepo) FeedService {
	return &FeedServiceImpl{activityRepo: activityRepo}
}

func (s *FeedServiceImpl) GetUserFeed(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*dto.FeedEntryDTO, error) {
	entries, err := s.activityRepo.GetUserFeed(ctx, userID, before, clampPageSize(pageSize))
	if err != nil {
		return nil, err
	}
	return toFeedDTOs(entries)
}

func (s *FeedServiceImpl) GetRepositoryFeed(ctx context.Context, repoID uint64, before time.Time, pageSize int) ([]*dto.FeedEntryDTO, error) {
	entries, err := s.activityRepo.GetRepositoryFeed(ctx, repoID, before, clampPageSize(pageSize))
	if err != nil {
		return nil, err
	}
	return toFeedDTOs(entries)
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return consts.DefaultFeedPageSize
	}
	if pageSize > consts.MaxFeedPageSize {
		return consts.MaxFeedPageSize
	}
	return pageSize
}

func toFeedDTOs(entries []*mongo.ActivityEntry) ([]*dto.FeedEntryDTO, error) {
	result := make([]*dto.FeedEntryDTO, 0, len(entries))
	for _, entry := range entries {
		entryDTO := &dto.FeedEntryDTO{}
		if err := copier.Copy(entryDTO, entry); err != nil {
			return nil, err
		}
		result = append(result, entryDTO)
	}
	return result, nil
}
