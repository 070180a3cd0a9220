package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/github"
	"VibeHub/internal/pkg/mongo"
	"VibeHub/internal/pkg/redis"
	"VibeHub/internal/pkg/util"
	"VibeHub/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/pkg/errors"
)

const (
	checkLockTTL = time.Hour
	viberLockTTL = time.Minute

	// commitDetailFetchLimit 每个仓库每轮最多补拉的提交详情条数，
	// 超出部分的活动流记录没有变更统计
	commitDetailFetchLimit = 20
)

// Locker 分布式锁的最小抽象
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	UnLock(ctx context.Context, key string)
}

type redisLocker struct{}

func NewRedisLocker() Locker {
	return &redisLocker{}
}

func (s *redisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return redis.TryLock(ctx, key, "1", ttl, 1)
}

func (s *redisLocker) UnLock(ctx context.Context, key string) {
	redis.UnLock(ctx, key, "1")
}

// TokenDecrypter 解出落库前加密过的 GitHub 令牌
type TokenDecrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// CheckService 日常巡检的编排者：
// 休假到期恢复、逐用户逐仓库刷新状态、成长统计、周榜计分与 Viber 评选、发通知
type CheckService interface {
	RunDailyCheck(ctx context.Context) (*dto.CheckSummary, error)
	RefreshRepository(ctx context.Context, user *model.User, repo *model.Repository) (*model.Repository, error)
}

type CheckServiceImpl struct {
	userRepo     repository.UserRepo
	repoRepo     repository.RepoRepo
	weeklyRepo   repository.WeeklyStatRepo
	activityRepo mongo.ActivityRepo
	progress     ProgressService
	notifiers    NotifierFactory
	github       github.Client
	decrypter    TokenDecrypter
	locker       Locker
}

func NewCheckService(
	userRepo repository.UserRepo,
	repoRepo repository.RepoRepo,
	weeklyRepo repository.WeeklyStatRepo,
	activityRepo mongo.ActivityRepo,
	progress ProgressService,
	notifiers NotifierFactory,
	ghClient github.Client,
	decrypter TokenDecrypter,
	locker Locker,
) CheckService {
	return &CheckServiceImpl{
		userRepo:     userRepo,
		repoRepo:     repoRepo,
		weeklyRepo:   weeklyRepo,
		activityRepo: activityRepo,
		progress:     progress,
		notifiers:    notifiers,
		github:       ghClient,
		decrypter:    decrypter,
		locker:       locker,
	}
}

// RunDailyCheck 执行一轮完整巡检。
// 全程持有分布式锁，cron 触发和管理端手动触发互斥；
// 单个用户/仓库的失败只记入明细，不影响其他对象。
func (s *CheckServiceImpl) RunDailyCheck(ctx context.Context) (*dto.CheckSummary, error) {
	acquired, err := s.locker.TryLock(ctx, consts.CheckRunLock, checkLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrCheckAlreadyRunning
	}
	defer s.locker.UnLock(ctx, consts.CheckRunLock)

	now := time.Now()
	week := util.WeekIdentifier(now)
	summary := &dto.CheckSummary{Details: make([]dto.CheckDetail, 0)}

	if err := s.expireVacations(ctx, now); err != nil {
		log.ErrorContext(ctx, "expire vacations failed", "err", err)
	}

	users, err := s.userRepo.GetActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "daily check cancelled", "checked", summary.UsersChecked)
			break
		}

		details, updated := s.checkUser(ctx, user, now, week)
		summary.UsersChecked++
		summary.RepositoriesUpdated += updated
		for _, d := range details {
			if d.Error != "" {
				summary.Errors++
			}
			summary.Details = append(summary.Details, d)
		}
	}

	s.selectViber(ctx, week)

	log.InfoContext(ctx, "daily check finished",
		"users", summary.UsersChecked,
		"updated", summary.RepositoriesUpdated,
		"errors", summary.Errors)
	return summary, nil
}

// expireVacations 把休假到期的用户恢复为可巡检状态，可重复执行
func (s *CheckServiceImpl) expireVacations(ctx context.Context, now time.Time) error {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if !user.OnVacation || user.VacationUntil == nil {
			continue
		}
		if user.VacationUntil.After(now) {
			continue
		}
		if _, err := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"on_vacation":    false,
			"vacation_until": nil,
		}); err != nil {
			return err
		}
		log.InfoContext(ctx, "vacation expired", "user", user.Username)
	}
	return nil
}

// checkUser 刷新单个用户的全部仓库并做后续记账。
// 单个仓库失败只记入明细，不影响同用户的其余仓库，也不影响后续用户。
func (s *CheckServiceImpl) checkUser(ctx context.Context, user *model.User, now time.Time, week string) (details []dto.CheckDetail, updated int) {
	details = make([]dto.CheckDetail, 0)

	if user.AccessToken == nil {
		details = append(details, dto.CheckDetail{User: user.Username, Error: ErrNoGithubToken.Error()})
		return details, 0
	}
	token, err := s.decrypter.Decrypt(*user.AccessToken)
	if err != nil {
		details = append(details, dto.CheckDetail{User: user.Username, Error: "令牌解密失败"})
		return details, 0
	}

	repos, err := s.repoRepo.GetRepositoriesByUser(ctx, user.ID)
	if err != nil {
		details = append(details, dto.CheckDetail{User: user.Username, Error: err.Error()})
		return details, 0
	}

	var newCommitCount int64
	current := make([]*model.Repository, 0, len(repos))

	for i, repo := range repos {
		if ctx.Err() != nil {
			current = append(current, repos[i:]...)
			break
		}

		oldStatus := repo.Status
		refreshed, commits, err := s.syncRepo(ctx, token, user, repo, now)
		if err != nil {
			details = append(details, dto.CheckDetail{
				User:       user.Username,
				Repository: repo.FullName,
				OldStatus:  oldStatus,
				Error:      err.Error(),
			})
			current = append(current, repo)
			// 令牌失效对该用户的所有仓库都一样，没必要继续；
			// 未检查的仓库按上次状态记账
			if errors.Is(err, github.ErrAuth) {
				current = append(current, repos[i+1:]...)
				break
			}
			continue
		}

		current = append(current, refreshed)
		newCommitCount += int64(len(commits))

		if refreshed.Status != oldStatus {
			updated++
			details = append(details, dto.CheckDetail{
				User:       user.Username,
				Repository: refreshed.FullName,
				OldStatus:  oldStatus,
				NewStatus:  refreshed.Status,
			})
		}
	}

	s.recordProgress(ctx, user, current, newCommitCount, now)
	s.recordWeeklyStat(ctx, user.ID, week, current, newCommitCount)
	s.notify(ctx, user, current)

	return details, updated
}

// syncRepo 拉取增量提交、重算状态并落库。
// 首次检查只取最新一条提交做基线，不回灌历史。
func (s *CheckServiceImpl) syncRepo(ctx context.Context, token string, user *model.User, repo *model.Repository, now time.Time) (*model.Repository, []*github.Commit, error) {
	var newCommits []*github.Commit

	if repo.LastCommitSha == nil {
		latest, err := s.github.GetLatestCommit(ctx, token, repo.FullName)
		if err != nil {
			return nil, nil, err
		}
		if latest != nil {
			newCommits = []*github.Commit{latest}
		}
	} else {
		commits, err := s.github.GetCommitsSince(ctx, token, repo.FullName, *repo.LastCommitSha)
		if err != nil {
			return nil, nil, err
		}
		newCommits = commits
	}

	updates := map[string]interface{}{}
	lastDate := repo.LastCommitDate
	if len(newCommits) > 0 {
		// 接口返回按时间降序，首条即最新
		newest := newCommits[0]
		updates["last_commit_sha"] = newest.Sha
		updates["last_commit_date"] = newest.Date
		lastDate = &newest.Date
	}

	status := string(github.CalculateStatusAt(lastDate, now))
	if status != repo.Status {
		updates["status"] = status
	}

	if len(updates) == 0 {
		return repo, newCommits, nil
	}

	refreshed, err := s.repoRepo.UpdateRepository(ctx, repo.ID, updates)
	if err != nil {
		return nil, nil, err
	}
	if refreshed == nil {
		return nil, nil, ErrRepoNotFound
	}

	s.appendFeed(ctx, token, user, refreshed, newCommits)
	return refreshed, newCommits, nil
}

// appendFeed 把新提交写进活动流，写入失败只记日志
func (s *CheckServiceImpl) appendFeed(ctx context.Context, token string, user *model.User, repo *model.Repository, commits []*github.Commit) {
	if len(commits) == 0 {
		return
	}

	entries := make([]*mongo.ActivityEntry, 0, len(commits))
	for i, commit := range commits {
		// 列表接口不带变更统计，前若干条补拉详情
		if i < commitDetailFetchLimit && commit.FilesChanged == 0 {
			if detail, err := s.github.GetCommit(ctx, token, repo.FullName, commit.Sha); err == nil {
				commit = detail
			}
		}
		entries = append(entries, &mongo.ActivityEntry{
			UserID:       user.ID,
			RepositoryID: repo.ID,
			RepoFullName: repo.FullName,
			CommitSha:    commit.Sha,
			Message:      commit.Message,
			FilesChanged: commit.FilesChanged,
			Additions:    commit.Additions,
			Deletions:    commit.Deletions,
			CommitDate:   commit.Date,
		})
	}

	if err := s.activityRepo.AppendEntries(ctx, entries); err != nil {
		log.ErrorContext(ctx, "append activity feed failed",
			"user", user.Username, "repo", repo.FullName, "err", err)
	}
}

// recordProgress 把本轮结果折算进成长统计。
// 有活跃仓库则连胜 +1，否则归零；当天有新提交时活跃天数 +1 并刷新 last_active。
func (s *CheckServiceImpl) recordProgress(ctx context.Context, user *model.User, repos []*model.Repository, newCommits int64, now time.Time) {
	progress, err := s.progress.GetProgress(ctx, user.ID)
	if err != nil {
		log.ErrorContext(ctx, "load progress failed", "user", user.Username, "err", err)
		return
	}

	anyActive := false
	for _, repo := range repos {
		if repo.Status == string(github.StatusActive) {
			anyActive = true
			break
		}
	}

	streak := 0
	if anyActive {
		streak = progress.CurrentStreak + 1
	}
	delta := &dto.ProgressDeltaDTO{
		CurrentStreak: util.PtrInt(streak),
	}
	if newCommits > 0 {
		delta.Commits = util.PtrInt64(newCommits)
		delta.Experience = util.PtrInt64(newCommits * ExperiencePerCommit)
		delta.ActiveDays = util.PtrInt(progress.ActiveDays + 1)
	}

	if _, err := s.progress.UpdateStats(ctx, user.ID, delta); err != nil {
		log.ErrorContext(ctx, "update progress failed", "user", user.Username, "err", err)
	}

	if anyActive {
		if _, err := s.userRepo.UpdateUser(ctx, user.ID, map[string]interface{}{
			"last_active": now,
		}); err != nil {
			log.ErrorContext(ctx, "bump last_active failed", "user", user.Username, "err", err)
		}
	}
}

// recordWeeklyStat 周内提交数累加，得分按当前状态全量重算。
// 没登记任何仓库的用户不参与周榜。
func (s *CheckServiceImpl) recordWeeklyStat(ctx context.Context, userID uint64, week string, repos []*model.Repository, newCommits int64) {
	if len(repos) == 0 {
		return
	}

	score := 0
	activeRepos := 0
	for _, repo := range repos {
		switch repo.Status {
		case string(github.StatusActive):
			score += consts.ViberActiveWeight
			activeRepos++
		case string(github.StatusWarning):
			score += consts.ViberWarningWeight
		case string(github.StatusInactive):
			score += consts.ViberInactiveWeight
		}
	}

	commitCount := int(newCommits)
	if existing, err := s.weeklyRepo.GetByUserAndWeek(ctx, userID, week); err == nil && existing != nil {
		commitCount += existing.CommitCount
	}

	if err := s.weeklyRepo.Upsert(ctx, &model.WeeklyStat{
		UserID:          userID,
		Week:            week,
		CommitCount:     commitCount,
		ActiveRepoCount: activeRepos,
		Score:           score,
	}); err != nil {
		log.ErrorContext(ctx, "upsert weekly stat failed", "user_id", userID, "week", week, "err", err)
	}
}

// notify 按本轮检查后的最新状态派发提醒，降级提醒优先于预警。
// 仓库持续不活跃时每轮都会提醒，直到恢复提交为止。
func (s *CheckServiceImpl) notify(ctx context.Context, user *model.User, repos []*model.Repository) {
	hasWarning, hasInactive := false, false
	for _, repo := range repos {
		switch repo.Status {
		case string(github.StatusWarning):
			hasWarning = true
		case string(github.StatusInactive):
			hasInactive = true
		}
	}

	notifier := s.notifiers.ForUser(user)
	if hasInactive {
		if !notifier.SendInactivityAlert(ctx, user, repos) {
			log.WarnContext(ctx, "inactivity alert not delivered", "user", user.Username)
		}
		return
	}
	if hasWarning {
		if !notifier.SendInactivityWarning(ctx, user, repos) {
			log.WarnContext(ctx, "inactivity warning not delivered", "user", user.Username)
		}
	}
}

// selectViber 评选本周 Viber，先清后立保证每周至多一名
func (s *CheckServiceImpl) selectViber(ctx context.Context, week string) {
	acquired, err := s.locker.TryLock(ctx, consts.ViberSelectLock, viberLockTTL)
	if err != nil || !acquired {
		log.WarnContext(ctx, "viber selection skipped", "week", week, "err", err)
		return
	}
	defer s.locker.UnLock(ctx, consts.ViberSelectLock)

	stats, err := s.weeklyRepo.GetByWeek(ctx, week)
	if err != nil {
		log.ErrorContext(ctx, "load weekly stats failed", "week", week, "err", err)
		return
	}
	if len(stats) == 0 {
		return
	}

	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "load users for viber selection failed", "week", week, "err", err)
		return
	}
	eligible := make(map[uint64]bool, len(users))
	for _, user := range users {
		if !user.OnVacation {
			eligible[user.ID] = true
		}
	}

	// 先清掉旧标记，保证每周至多一名
	if err := s.weeklyRepo.ClearVibers(ctx, week); err != nil {
		log.ErrorContext(ctx, "clear vibers failed", "week", week, "err", err)
		return
	}

	// 查询已按 score DESC, user_id ASC 排序，取首个仍然参评的用户；
	// 本周才去休假的人即便留有得分也不参评。没人得分为正时本周空缺
	var top *model.WeeklyStat
	for _, stat := range stats {
		if eligible[stat.UserID] {
			top = stat
			break
		}
	}
	if top == nil || top.Score <= 0 {
		log.InfoContext(ctx, "viber vacant this week", "week", week)
		return
	}
	if err := s.weeklyRepo.SetViber(ctx, top.UserID, week); err != nil {
		log.ErrorContext(ctx, "set viber failed", "week", week, "user_id", top.UserID, "err", err)
		return
	}
	log.InfoContext(ctx, "viber selected", "week", week, "user_id", top.UserID, "score", top.Score)
}

// RefreshRepository 单仓库手动同步，流程与巡检中的单仓库处理一致
func (s *CheckServiceImpl) RefreshRepository(ctx context.Context, user *model.User, repo *model.Repository) (*model.Repository, error) {
	if user.AccessToken == nil {
		return nil, ErrNoGithubToken
	}
	token, err := s.decrypter.Decrypt(*user.AccessToken)
	if err != nil {
		return nil, err
	}

	refreshed, _, err := s.syncRepo(ctx, token, user, repo, time.Now())
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return nil, ErrRepoUnreachable
		}
		return nil, err
	}
	return refreshed, nil
}
