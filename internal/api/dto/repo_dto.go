package dto

import "time"

type RepositoryDTO struct {
	RepoID         uint64     `json:"repo_id"`
	UserID         uint64     `json:"user_id"`
	FullName       string     `json:"full_name"`
	Status         string     `json:"status"`
	LastCommitDate *time.Time `json:"last_commit_date,omitempty"`
	LastCommitSha  *string    `json:"last_commit_sha,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type AddRepoDTO struct {
	// FullName 形如 owner/repo
	FullName string `json:"full_name" binding:"required" validate:"required,contains=/,max=255"`
}

type SetRepoStatusDTO struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=pending active warning inactive"`
}
