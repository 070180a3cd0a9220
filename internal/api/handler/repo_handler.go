package handler

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/pkg/util"
	"VibeHub/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RepoHandler struct {
	repoSvc service.RepoService
}

func NewRepoHandler(repoSvc service.RepoService) *RepoHandler {
	return &RepoHandler{repoSvc: repoSvc}
}

func (s *RepoHandler) ListRepositories(c *gin.Context) {
	userId := c.GetUint64("user_id")

	repos, err := s.repoSvc.ListRepositories(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repos)
}

func (s *RepoHandler) AddRepository(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var addDTO dto.AddRepoDTO
	if err := c.ShouldBind(&addDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&addDTO); err != nil {
		response.Error(c, err)
		return
	}

	repo, err := s.repoSvc.AddRepository(c.Request.Context(), userId, &addDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

func (s *RepoHandler) DeleteRepository(c *gin.Context) {
	userId := c.GetUint64("user_id")
	repoId, err := s.repoIdParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := s.repoSvc.DeleteRepository(c.Request.Context(), userId, repoId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// SyncRepository 手动同步单个仓库
func (s *RepoHandler) SyncRepository(c *gin.Context) {
	userId := c.GetUint64("user_id")
	repoId, err := s.repoIdParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	repo, err := s.repoSvc.SyncRepository(c.Request.Context(), userId, repoId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}

func (s *RepoHandler) repoIdParam(c *gin.Context) (uint64, error) {
	repoIdStr := c.Param("repo_id")
	repoId, err := strconv.ParseUint(repoIdStr, 10, 64)
	if err != nil {
		return 0, service.ErrParamInvalid
	}
	return repoId, nil
}
