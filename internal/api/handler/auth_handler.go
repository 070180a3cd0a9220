package handler

import (
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userSvc service.UserService
}

func NewAuthHandler(userSvc service.UserService) *AuthHandler {
	return &AuthHandler{userSvc: userSvc}
}

// Login 返回 GitHub 授权跳转地址，前端负责重定向
func (s *AuthHandler) Login(c *gin.Context) {
	authURL, err := s.userSvc.BuildAuthURL(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{"auth_url": authURL})
}

// Callback GitHub 授权回调，换取会话令牌
func (s *AuthHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	token, err := s.userSvc.LoginWithGitHub(c.Request.Context(), state, code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{"token": token})
}

func (s *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString("token")
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
