package job

import (
	"VibeHub/internal/pkg/logger"
	"VibeHub/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// RepoCheckJob 定时巡检入口，实际编排都在 CheckService 里
type RepoCheckJob struct {
	checkSvc service.CheckService
}

func NewRepoCheckJob(checkSvc service.CheckService) *RepoCheckJob {
	return &RepoCheckJob{checkSvc: checkSvc}
}

func (s *RepoCheckJob) Run() {
	traceID := "job-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	start := time.Now()
	summary, err := s.checkSvc.RunDailyCheck(ctx)
	if err != nil {
		if errors.Is(err, service.ErrCheckAlreadyRunning) {
			log.WarnContext(ctx, "daily check skipped, another run in progress")
			return
		}
		log.ErrorContext(ctx, "daily check failed", "err", err)
		return
	}

	log.InfoContext(ctx, "daily check job done",
		"users", summary.UsersChecked,
		"updated", summary.RepositoriesUpdated,
		"errors", summary.Errors,
		"cost", time.Since(start))
}
