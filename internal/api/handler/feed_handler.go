package handler

import (
	"VibeHub/internal/pkg/response"
	"VibeHub/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{feedSvc: feedSvc}
}

func (s *FeedHandler) GetUserFeed(c *gin.Context) {
	userId := c.GetUint64("user_id")
	before, pageSize, err := s.getCursor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := s.feedSvc.GetUserFeed(c.Request.Context(), userId, before, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *FeedHandler) GetRepositoryFeed(c *gin.Context) {
	repoIdStr := c.Param("repo_id")
	repoId, err := strconv.ParseUint(repoIdStr, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	before, pageSize, err := s.getCursor(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := s.feedSvc.GetRepositoryFeed(c.Request.Context(), repoId, before, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

// getCursor before 为上一页最旧一条的 commit_date，RFC3339 格式
func (s *FeedHandler) getCursor(c *gin.Context) (time.Time, int, error) {
	var before time.Time
	if beforeStr := c.Query("before"); beforeStr != "" {
		parsed, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			return time.Time{}, 0, service.ErrParamInvalid
		}
		before = parsed
	}

	pageSize := 0
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil {
			return time.Time{}, 0, service.ErrParamInvalid
		}
		pageSize = parsed
	}

	return before, pageSize, nil
}
