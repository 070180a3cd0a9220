package api

import (
	"VibeHub/internal/api/middleware"
	"VibeHub/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.GET("/github/login", group.AuthHandler.Login)
			authGroup.GET("/github/callback", group.AuthHandler.Callback)

			logoutGroup := authGroup.Group("")
			logoutGroup.Use(middleware.AuthMiddleware())
			{
				logoutGroup.POST("/logout", group.AuthHandler.Logout)
			}
		}

		userGroup := apiGroup.Group("/user")
		userGroup.Use(middleware.AuthMiddleware())
		{
			userGroup.GET("/info", group.UserHandler.GetUserInfo)
			userGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
			userGroup.POST("/vacation", group.UserHandler.SetVacation)
			userGroup.DELETE("/vacation", group.UserHandler.ClearVacation)
		}

		repoGroup := apiGroup.Group("/repos")
		repoGroup.Use(middleware.AuthMiddleware())
		{
			repoGroup.GET("", group.RepoHandler.ListRepositories)
			repoGroup.POST("", group.RepoHandler.AddRepository)
			repoGroup.DELETE("/:repo_id", group.RepoHandler.DeleteRepository)
			repoGroup.POST("/:repo_id/sync", group.RepoHandler.SyncRepository)
			repoGroup.GET("/:repo_id/feed", group.FeedHandler.GetRepositoryFeed)
		}

		progressGroup := apiGroup.Group("/progress")
		progressGroup.Use(middleware.AuthMiddleware())
		{
			progressGroup.GET("", group.ProgressHandler.GetProgress)
			progressGroup.GET("/weekly", group.ProgressHandler.GetWeeklyStats)
		}

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(middleware.AuthMiddleware())
		{
			feedGroup.GET("", group.FeedHandler.GetUserFeed)
		}

		leaderboardGroup := apiGroup.Group("/leaderboard")
		leaderboardGroup.Use(middleware.AuthMiddleware())
		{
			leaderboardGroup.GET("", group.ProgressHandler.GetLeaderboard)
			leaderboardGroup.GET("/viber", group.ProgressHandler.GetCurrentViber)
		}

		// 需要登录 & 管理员
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckAdmin())
		{
			adminGroup.GET("/users", group.AdminHandler.ListUsers)
			adminGroup.DELETE("/users/:user_id", group.AdminHandler.DeleteUser)
			adminGroup.POST("/check/run", group.AdminHandler.TriggerCheck)
			adminGroup.PUT("/repos/:repo_id/status", group.AdminHandler.SetRepositoryStatus)
		}
	}

	return r
}
