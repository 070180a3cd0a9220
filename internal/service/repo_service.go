package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/github"
	"VibeHub/internal/repository"
	"context"
	log "log/slog"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

type RepoService interface {
	ListRepositories(ctx context.Context, userID uint64) ([]*dto.RepositoryDTO, error)
	AddRepository(ctx context.Context, userID uint64, add *dto.AddRepoDTO) (*dto.RepositoryDTO, error)
	DeleteRepository(ctx context.Context, userID, repoID uint64) error
	SyncRepository(ctx context.Context, userID, repoID uint64) (*dto.RepositoryDTO, error)
	SetRepositoryStatus(ctx context.Context, repoID uint64, status string) (*dto.RepositoryDTO, error)
}

type RepoServiceImpl struct {
	userRepo  repository.UserRepo
	repoRepo  repository.RepoRepo
	github    github.Client
	decrypter TokenDecrypter
	checker   CheckService
}

func NewRepoService(
	userRepo repository.UserRepo,
	repoRepo repository.RepoRepo,
	ghClient github.Client,
	decrypter TokenDecrypter,
	checker CheckService,
) RepoService {
	return &RepoServiceImpl{
		userRepo:  userRepo,
		repoRepo:  repoRepo,
		github:    ghClient,
		decrypter: decrypter,
		checker:   checker,
	}
}

func (s *RepoServiceImpl) ListRepositories(ctx context.Context, userID uint64) ([]*dto.RepositoryDTO, error) {
	repos, err := s.repoRepo.GetRepositoriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.RepositoryDTO, 0, len(repos))
	for _, repo := range repos {
		repoDTO, err := toRepositoryDTO(repo)
		if err != nil {
			return nil, err
		}
		result = append(result, repoDTO)
	}
	return result, nil
}

// AddRepository 登记仓库前先用本人令牌确认 GitHub 上可达，
// 私有仓库只要授权范围覆盖也能登记
func (s *RepoServiceImpl) AddRepository(ctx context.Context, userID uint64, add *dto.AddRepoDTO) (*dto.RepositoryDTO, error) {
	fullName := strings.TrimSpace(add.FullName)
	if strings.Count(fullName, "/") != 1 {
		return nil, ErrParamInvalid
	}

	existing, err := s.repoRepo.GetRepositoryByUserAndName(ctx, userID, fullName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRepoExist
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.AccessToken == nil {
		return nil, ErrNoGithubToken
	}
	token, err := s.decrypter.Decrypt(*user.AccessToken)
	if err != nil {
		return nil, err
	}

	ghRepo, err := s.github.GetRepository(ctx, token, fullName)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) || errors.Is(err, github.ErrAuth) {
			return nil, ErrRepoUnreachable
		}
		log.ErrorContext(ctx, "verify repository failed", "repo", fullName, "err", err)
		return nil, err
	}

	repo := &model.Repository{
		UserID: userID,
		// 以 GitHub 的规范大小写为准
		FullName: ghRepo.FullName,
		Status:   string(github.StatusPending),
	}
	if err := s.repoRepo.CreateRepository(ctx, repo); err != nil {
		return nil, err
	}

	return toRepositoryDTO(repo)
}

func (s *RepoServiceImpl) DeleteRepository(ctx context.Context, userID, repoID uint64) error {
	repo, err := s.ownedRepository(ctx, userID, repoID)
	if err != nil {
		return err
	}
	return s.repoRepo.DeleteRepository(ctx, repo.ID)
}

// SyncRepository 手动触发单仓库刷新，复用巡检的同步流程
func (s *RepoServiceImpl) SyncRepository(ctx context.Context, userID, repoID uint64) (*dto.RepositoryDTO, error) {
	repo, err := s.ownedRepository(ctx, userID, repoID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	refreshed, err := s.checker.RefreshRepository(ctx, user, repo)
	if err != nil {
		return nil, err
	}
	return toRepositoryDTO(refreshed)
}

// SetRepositoryStatus 管理端强制改状态，下一轮巡检可能再改回去
func (s *RepoServiceImpl) SetRepositoryStatus(ctx context.Context, repoID uint64, status string) (*dto.RepositoryDTO, error) {
	repo, err := s.repoRepo.UpdateRepository(ctx, repoID, map[string]interface{}{
		"status": status,
	})
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, ErrRepoNotFound
	}
	return toRepositoryDTO(repo)
}

func (s *RepoServiceImpl) ownedRepository(ctx context.Context, userID, repoID uint64) (*model.Repository, error) {
	repo, err := s.repoRepo.GetRepositoryById(ctx, repoID)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, ErrRepoNotFound
	}
	if repo.UserID != userID {
		return nil, ErrNotRepoOwner
	}
	return repo, nil
}

func toRepositoryDTO(repo *model.Repository) (*dto.RepositoryDTO, error) {
	repoDTO := &dto.RepositoryDTO{}
	if err := copier.Copy(repoDTO, repo); err != nil {
		return nil, err
	}
	repoDTO.RepoID = repo.ID
	return repoDTO, nil
}
