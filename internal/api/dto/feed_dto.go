package dto

import "time"

type FeedEntryDTO struct {
	ID           string    `json:"id"`
	UserID       uint64    `json:"user_id"`
	RepositoryID uint64    `json:"repository_id"`
	RepoFullName string    `json:"repo_full_name"`
	CommitSha    string    `json:"commit_sha"`
	Message      string    `json:"message"`
	FilesChanged int       `json:"files_changed"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	Summary      string    `json:"summary,omitempty"`
	CommitDate   time.Time `json:"commit_date"`
}
