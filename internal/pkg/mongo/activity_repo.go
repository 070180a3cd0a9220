package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityRepo interface {
	AppendEntries(ctx context.Context, entries []*ActivityEntry) error
	GetUserFeed(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*ActivityEntry, error)
	GetRepositoryFeed(ctx context.Context, repoID uint64, before time.Time, pageSize int) ([]*ActivityEntry, error)
}

type activityRepoImpl struct {
	col *mongo.Collection
}

func NewActivityRepo(db *mongo.Database) ActivityRepo {
	return &activityRepoImpl{
		col: db.Collection("activity_feed"),
	}
}

// AppendEntries 批量写入活动流，空批次直接返回
func (s *activityRepoImpl) AppendEntries(ctx context.Context, entries []*ActivityEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		docs = append(docs, e)
	}
	_, err := s.col.InsertMany(ctx, docs)
	return err
}

// GetUserFeed 按提交时间降序的游标分页
// before 为当前页面最旧一条的提交时间，第一页传零值
func (s *activityRepoImpl) GetUserFeed(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*ActivityEntry, error) {
	filter := bson.M{"user_id": userID}
	return s.find(ctx, filter, before, pageSize)
}

// GetRepositoryFeed 单仓库视角的活动流
func (s *activityRepoImpl) GetRepositoryFeed(ctx context.Context, repoID uint64, before time.Time, pageSize int) ([]*ActivityEntry, error) {
	filter := bson.M{"repository_id": repoID}
	return s.find(ctx, filter, before, pageSize)
}

func (s *activityRepoImpl) find(ctx context.Context, filter bson.M, before time.Time, pageSize int) ([]*ActivityEntry, error) {
	if !before.IsZero() {
		filter["commit_date"] = bson.M{"$lt": before}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "commit_date", Value: -1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var entries []*ActivityEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}
