package api

import "VibeHub/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	RepoHandler     *handler.RepoHandler
	ProgressHandler *handler.ProgressHandler
	FeedHandler     *handler.FeedHandler
	AdminHandler    *handler.AdminHandler
}
