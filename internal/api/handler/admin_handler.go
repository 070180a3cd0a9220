package handler

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/pkg/util"
	"VibeHub/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userSvc  service.UserService
	repoSvc  service.RepoService
	checkSvc service.CheckService
}

func NewAdminHandler(userSvc service.UserService, repoSvc service.RepoService, checkSvc service.CheckService) *AdminHandler {
	return &AdminHandler{
		userSvc:  userSvc,
		repoSvc:  repoSvc,
		checkSvc: checkSvc,
	}
}

func (s *AdminHandler) ListUsers(c *gin.Context) {
	users, err := s.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, users)
}

func (s *AdminHandler) DeleteUser(c *gin.Context) {
	userIdStr := c.Param("user_id")
	userId, err := strconv.ParseUint(userIdStr, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.userSvc.DeleteUser(c.Request.Context(), userId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// TriggerCheck 手动触发一轮巡检，同步等待并返回汇总
func (s *AdminHandler) TriggerCheck(c *gin.Context) {
	summary, err := s.checkSvc.RunDailyCheck(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

// SetRepositoryStatus 强制覆盖仓库状态
func (s *AdminHandler) SetRepositoryStatus(c *gin.Context) {
	repoIdStr := c.Param("repo_id")
	repoId, err := strconv.ParseUint(repoIdStr, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var statusDTO dto.SetRepoStatusDTO
	if err := c.ShouldBind(&statusDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&statusDTO); err != nil {
		response.Error(c, err)
		return
	}

	repo, err := s.repoSvc.SetRepositoryStatus(c.Request.Context(), repoId, statusDTO.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, repo)
}
