package cron

import (
	"VibeHub/internal/api/config"
	"VibeHub/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine       *cron.Cron
	repoCheckJob *job.RepoCheckJob
}

func NewCronManager(repoCheckJob *job.RepoCheckJob) *Manager {
	return &Manager{
		engine:       cron.New(),
		repoCheckJob: repoCheckJob,
	}
}

// RegisterJobs 注册定时任务
// 巡检用固定间隔而非 cron 表达式，进程启动后可立即先跑一轮
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(config.Cfg.Check.Interval, s.repoCheckJob); err != nil {
		return err
	}
	if config.Cfg.Check.RunOnStart {
		go s.repoCheckJob.Run()
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
