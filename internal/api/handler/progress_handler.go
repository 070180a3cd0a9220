package handler

import (
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressSvc service.ProgressService
	statSvc     service.StatService
}

func NewProgressHandler(progressSvc service.ProgressService, statSvc service.StatService) *ProgressHandler {
	return &ProgressHandler{
		progressSvc: progressSvc,
		statSvc:     statSvc,
	}
}

func (s *ProgressHandler) GetProgress(c *gin.Context) {
	userId := c.GetUint64("user_id")

	progress, err := s.progressSvc.GetProgress(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, progress)
}

func (s *ProgressHandler) GetWeeklyStats(c *gin.Context) {
	userId := c.GetUint64("user_id")

	stats, err := s.statSvc.GetUserWeeklyStats(c.Request.Context(), userId)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// GetLeaderboard week 形如 2026-35，不传取当前周
func (s *ProgressHandler) GetLeaderboard(c *gin.Context) {
	week := c.Query("week")

	entries, err := s.statSvc.GetLeaderboard(c.Request.Context(), week)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *ProgressHandler) GetCurrentViber(c *gin.Context) {
	viber, err := s.statSvc.GetCurrentViber(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, viber)
}
