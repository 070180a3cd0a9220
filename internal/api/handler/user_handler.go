package handler

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/pkg/util"
	"VibeHub/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userId := c.GetUint64("user_id")

	user, err := s.userSvc.GetUserInfo(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var updateDTO dto.UpdateUserDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.UpdateUserInfo(c.Request.Context(), userId, &updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) SetVacation(c *gin.Context) {
	userId := c.GetUint64("user_id")

	var vacationDTO dto.VacationDTO
	if err := c.ShouldBind(&vacationDTO); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.userSvc.SetVacation(c.Request.Context(), userId, vacationDTO.Until); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ClearVacation(c *gin.Context) {
	userId := c.GetUint64("user_id")

	if err := s.userSvc.ClearVacation(c.Request.Context(), userId); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
