package wire

import (
	"VibeHub/internal/api"
	"VibeHub/internal/api/config"
	"VibeHub/internal/api/handler"
	"VibeHub/internal/job"
	"VibeHub/internal/pkg/cron"
	"VibeHub/internal/pkg/github"
	vmongo "VibeHub/internal/pkg/mongo"
	"VibeHub/internal/pkg/oauth"
	"VibeHub/internal/pkg/security"
	"VibeHub/internal/repository"
	"VibeHub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	CronManager *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	repoRepo := repository.NewRepoRepo(db)
	progressRepo := repository.NewProgressRepo(db)
	weeklyRepo := repository.NewWeeklyStatRepo(db)
	activityRepo := vmongo.NewActivityRepo(mongoDB)

	ghClient := github.NewClient()
	provider := oauth.NewGitHubProvider(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.CallbackURL)
	cipher := security.NewTokenCipher(cfg.Session.Secret)

	userService := service.NewUserService(userRepo, provider, ghClient, cipher)
	progressService := service.NewProgressService(progressRepo)
	feedService := service.NewFeedService(activityRepo)
	statService := service.NewStatService(userRepo, weeklyRepo)
	notifierFactory := service.NewNotifierFactory(cfg)
	checkService := service.NewCheckService(
		userRepo, repoRepo, weeklyRepo, activityRepo,
		progressService, notifierFactory, ghClient, cipher,
		service.NewRedisLocker(),
	)
	repoService := service.NewRepoService(userRepo, repoRepo, ghClient, cipher, checkService)

	handlers := &api.HandlersGroup{
		AuthHandler:     handler.NewAuthHandler(userService),
		UserHandler:     handler.NewUserHandler(userService),
		RepoHandler:     handler.NewRepoHandler(repoService),
		ProgressHandler: handler.NewProgressHandler(progressService, statService),
		FeedHandler:     handler.NewFeedHandler(feedService),
		AdminHandler:    handler.NewAdminHandler(userService, repoService, checkService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(job.NewRepoCheckJob(checkService))

	return &ApplicationContainer{
		Router:      router,
		DB:          db,
		CronManager: cronMgr,
	}, nil
}
