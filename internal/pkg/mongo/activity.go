package mongo

import (
	"time"
)

// ActivityEntry 一次提交批次的活动流记录，只追加不修改
type ActivityEntry struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	UserID       uint64    `bson:"user_id" json:"userId"`
	RepositoryID uint64    `bson:"repository_id" json:"repositoryId"`
	RepoFullName string    `bson:"repo_full_name" json:"repoFullName"`
	CommitSha    string    `bson:"commit_sha" json:"commitSha"`
	Message      string    `bson:"message" json:"message"`
	FilesChanged int       `bson:"files_changed" json:"filesChanged"`
	Additions    int       `bson:"additions" json:"additions"`
	Deletions    int       `bson:"deletions" json:"deletions"`
	Summary      string    `bson:"summary,omitempty" json:"summary"` // 外部生成的摘要，可为空
	CommitDate   time.Time `bson:"commit_date" json:"commitDate"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
