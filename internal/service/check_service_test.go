package service

import (
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/github"
	"VibeHub/internal/pkg/mongo"
	"VibeHub/internal/pkg/util"
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- 内存版依赖 ----

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint64]*model.User)}
	for _, u := range users {
		clone := *u
		repo.users[u.ID] = &clone
	}
	return repo
}

func (s *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserRepo) GetUserByGithubId(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range s.users {
		if u.GithubID == githubID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeUserRepo) GetUsers(_ context.Context) ([]*model.User, error) {
	return s.sorted(func(*model.User) bool { return true }), nil
}

func (s *fakeUserRepo) GetActiveUsers(_ context.Context) ([]*model.User, error) {
	return s.sorted(func(u *model.User) bool { return !u.OnVacation }), nil
}

func (s *fakeUserRepo) CreateUser(_ context.Context, user *model.User) error {
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserRepo) UpdateUser(_ context.Context, id uint64, updates map[string]interface{}) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	for k, v := range updates {
		switch k {
		case "on_vacation":
			u.OnVacation = v.(bool)
		case "vacation_until":
			if v == nil {
				u.VacationUntil = nil
			} else {
				ts := v.(time.Time)
				u.VacationUntil = &ts
			}
		case "last_active":
			ts := v.(time.Time)
			u.LastActive = &ts
		}
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserRepo) DeleteUser(_ context.Context, id uint64) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserRepo) sorted(keep func(*model.User) bool) []*model.User {
	result := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		if keep(u) {
			clone := *u
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakeRepoRepo struct {
	repos map[uint64]*model.Repository
}

func newFakeRepoRepo(repos ...*model.Repository) *fakeRepoRepo {
	repo := &fakeRepoRepo{repos: make(map[uint64]*model.Repository)}
	for _, r := range repos {
		clone := *r
		repo.repos[r.ID] = &clone
	}
	return repo
}

func (s *fakeRepoRepo) GetRepositoryById(_ context.Context, id uint64) (*model.Repository, error) {
	r, ok := s.repos[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (s *fakeRepoRepo) GetRepositoriesByUser(_ context.Context, userID uint64) ([]*model.Repository, error) {
	result := make([]*model.Repository, 0)
	for _, r := range s.repos {
		if r.UserID == userID {
			clone := *r
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *fakeRepoRepo) GetRepositoryByUserAndName(_ context.Context, userID uint64, fullName string) (*model.Repository, error) {
	for _, r := range s.repos {
		if r.UserID == userID && r.FullName == fullName {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeRepoRepo) CreateRepository(_ context.Context, repo *model.Repository) error {
	clone := *repo
	s.repos[repo.ID] = &clone
	return nil
}

func (s *fakeRepoRepo) UpdateRepository(_ context.Context, id uint64, updates map[string]interface{}) (*model.Repository, error) {
	r, ok := s.repos[id]
	if !ok {
		return nil, nil
	}
	for k, v := range updates {
		switch k {
		case "status":
			r.Status = v.(string)
		case "last_commit_sha":
			sha := v.(string)
			r.LastCommitSha = &sha
		case "last_commit_date":
			ts := v.(time.Time)
			r.LastCommitDate = &ts
		}
	}
	clone := *r
	return &clone, nil
}

func (s *fakeRepoRepo) DeleteRepository(_ context.Context, id uint64) error {
	delete(s.repos, id)
	return nil
}

type fakeWeeklyRepo struct {
	stats map[string]*model.WeeklyStat
}

func newFakeWeeklyRepo() *fakeWeeklyRepo {
	return &fakeWeeklyRepo{stats: make(map[string]*model.WeeklyStat)}
}

func weeklyKey(userID uint64, week string) string {
	return week + "/" + strconv.FormatUint(userID, 10)
}

func (s *fakeWeeklyRepo) GetByUser(_ context.Context, userID uint64) ([]*model.WeeklyStat, error) {
	result := make([]*model.WeeklyStat, 0)
	for _, st := range s.stats {
		if st.UserID == userID {
			clone := *st
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (s *fakeWeeklyRepo) GetByUserAndWeek(_ context.Context, userID uint64, week string) (*model.WeeklyStat, error) {
	st, ok := s.stats[weeklyKey(userID, week)]
	if !ok {
		return nil, nil
	}
	clone := *st
	return &clone, nil
}

func (s *fakeWeeklyRepo) GetByWeek(_ context.Context, week string) ([]*model.WeeklyStat, error) {
	result := make([]*model.WeeklyStat, 0)
	for _, st := range s.stats {
		if st.Week == week {
			clone := *st
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (s *fakeWeeklyRepo) Upsert(_ context.Context, stat *model.WeeklyStat) error {
	key := weeklyKey(stat.UserID, stat.Week)
	if existing, ok := s.stats[key]; ok {
		existing.CommitCount = stat.CommitCount
		existing.ActiveRepoCount = stat.ActiveRepoCount
		existing.Score = stat.Score
		return nil
	}
	clone := *stat
	s.stats[key] = &clone
	return nil
}

func (s *fakeWeeklyRepo) ClearVibers(_ context.Context, week string) error {
	for _, st := range s.stats {
		if st.Week == week {
			st.IsViber = false
		}
	}
	return nil
}

func (s *fakeWeeklyRepo) SetViber(_ context.Context, userID uint64, week string) error {
	if st, ok := s.stats[weeklyKey(userID, week)]; ok {
		st.IsViber = true
	}
	return nil
}

type fakeActivityRepo struct {
	entries []*mongo.ActivityEntry
}

func (s *fakeActivityRepo) AppendEntries(_ context.Context, entries []*mongo.ActivityEntry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *fakeActivityRepo) GetUserFeed(_ context.Context, userID uint64, _ time.Time, _ int) ([]*mongo.ActivityEntry, error) {
	result := make([]*mongo.ActivityEntry, 0)
	for _, e := range s.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *fakeActivityRepo) GetRepositoryFeed(_ context.Context, repoID uint64, _ time.Time, _ int) ([]*mongo.ActivityEntry, error) {
	result := make([]*mongo.ActivityEntry, 0)
	for _, e := range s.entries {
		if e.RepositoryID == repoID {
			result = append(result, e)
		}
	}
	return result, nil
}

// fakeGitHub 按仓库配置提交与错误
type fakeGitHub struct {
	commits map[string][]*github.Commit
	fail    map[string]error
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		commits: make(map[string][]*github.Commit),
		fail:    make(map[string]error),
	}
}

func (s *fakeGitHub) GetAuthenticatedUser(context.Context, string) (*github.User, error) {
	return &github.User{ID: 1, Login: "tester"}, nil
}

func (s *fakeGitHub) GetRepository(_ context.Context, _, fullName string) (*github.Repository, error) {
	if err := s.fail[fullName]; err != nil {
		return nil, err
	}
	return &github.Repository{FullName: fullName}, nil
}

func (s *fakeGitHub) GetLatestCommit(_ context.Context, _, fullName string) (*github.Commit, error) {
	if err := s.fail[fullName]; err != nil {
		return nil, err
	}
	list := s.commits[fullName]
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *fakeGitHub) GetCommit(_ context.Context, _, fullName, sha string) (*github.Commit, error) {
	for _, c := range s.commits[fullName] {
		if c.Sha == sha {
			return c, nil
		}
	}
	return nil, github.ErrNotFound
}

func (s *fakeGitHub) GetCommitsSince(_ context.Context, _, fullName, sinceSha string) ([]*github.Commit, error) {
	if err := s.fail[fullName]; err != nil {
		return nil, err
	}
	result := make([]*github.Commit, 0)
	for _, c := range s.commits[fullName] {
		if c.Sha == sinceSha {
			break
		}
		result = append(result, c)
	}
	return result, nil
}

func (s *fakeGitHub) GetContents(context.Context, string, string, string) (*github.Content, error) {
	return nil, github.ErrNotFound
}

type plainDecrypter struct{}

func (plainDecrypter) Decrypt(ciphertext string) (string, error) {
	return ciphertext, nil
}

type fakeLocker struct {
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (s *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.held[key] {
		return false, nil
	}
	s.held[key] = true
	return true, nil
}

func (s *fakeLocker) UnLock(_ context.Context, key string) {
	delete(s.held, key)
}

type fakeNotifier struct {
	warnings int
	alerts   int
}

func (s *fakeNotifier) SendInactivityWarning(context.Context, *model.User, []*model.Repository) bool {
	s.warnings++
	return true
}

func (s *fakeNotifier) SendInactivityAlert(context.Context, *model.User, []*model.Repository) bool {
	s.alerts++
	return true
}

type fakeNotifierFactory struct {
	notifier *fakeNotifier
}

func (s *fakeNotifierFactory) ForUser(*model.User) Notifier {
	return s.notifier
}

// ---- 装配 ----

type checkFixture struct {
	users    *fakeUserRepo
	repos    *fakeRepoRepo
	weekly   *fakeWeeklyRepo
	activity *fakeActivityRepo
	gh       *fakeGitHub
	locker   *fakeLocker
	notifier *fakeNotifier
	progress *fakeProgressRepo
	svc      CheckService
}

func newCheckFixture(users []*model.User, repos []*model.Repository) *checkFixture {
	f := &checkFixture{
		users:    newFakeUserRepo(users...),
		repos:    newFakeRepoRepo(repos...),
		weekly:   newFakeWeeklyRepo(),
		activity: &fakeActivityRepo{},
		gh:       newFakeGitHub(),
		locker:   newFakeLocker(),
		notifier: &fakeNotifier{},
		progress: newFakeProgressRepo(),
	}
	f.svc = NewCheckService(
		f.users, f.repos, f.weekly, f.activity,
		NewProgressService(f.progress),
		&fakeNotifierFactory{notifier: f.notifier},
		f.gh, plainDecrypter{}, f.locker,
	)
	return f
}

func activeUser(id uint64, name string) *model.User {
	return &model.User{
		ID:               id,
		GithubID:         int64(id),
		Username:         name,
		AccessToken:      util.PtrString("token-" + name),
		NotificationPref: consts.NotifyPrefEmail,
	}
}

// ---- 用例 ----

func TestRunDailyCheckLockContention(t *testing.T) {
	f := newCheckFixture(nil, nil)
	f.locker.held[consts.CheckRunLock] = true

	_, err := f.svc.RunDailyCheck(context.Background())
	assert.ErrorIs(t, err, ErrCheckAlreadyRunning)
}

func TestRunDailyCheckReleasesLock(t *testing.T) {
	f := newCheckFixture(nil, nil)

	_, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.False(t, f.locker.held[consts.CheckRunLock])
}

func TestRunDailyCheckVacationExpiry(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	user := activeUser(1, "alice")
	user.OnVacation = true
	user.VacationUntil = &past

	f := newCheckFixture([]*model.User{user}, nil)

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	restored := f.users.users[1]
	assert.False(t, restored.OnVacation)
	assert.Nil(t, restored.VacationUntil)
	// 恢复在取活跃用户之前完成，当轮就会被巡检
	assert.Equal(t, 1, summary.UsersChecked)

	// 再跑一轮不会出错，幂等
	_, err = f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
}

func TestRunDailyCheckSkipsVacationingUser(t *testing.T) {
	future := time.Now().Add(72 * time.Hour)
	user := activeUser(1, "alice")
	user.OnVacation = true
	user.VacationUntil = &future

	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/repo", Status: string(github.StatusPending)},
	})

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.UsersChecked)
	assert.Equal(t, string(github.StatusPending), f.repos.repos[1].Status)
}

func TestRunDailyCheckSkipsTokenlessUser(t *testing.T) {
	user := activeUser(1, "alice")
	user.AccessToken = nil

	f := newCheckFixture([]*model.User{user}, nil)

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UsersChecked)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunDailyCheckFailureIsolation(t *testing.T) {
	user := activeUser(1, "alice")
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/broken", Status: string(github.StatusPending)},
		{ID: 2, UserID: 1, FullName: "alice/healthy", Status: string(github.StatusPending)},
	})

	now := time.Now()
	f.gh.fail["alice/broken"] = errors.Wrap(github.ErrTransient, "boom")
	f.gh.commits["alice/healthy"] = []*github.Commit{
		{Sha: "abc", Message: "feat: x", Date: now.Add(-time.Hour), FilesChanged: 1},
	}

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, string(github.StatusActive), f.repos.repos[2].Status)
	assert.Equal(t, string(github.StatusPending), f.repos.repos[1].Status)
}

func TestRunDailyCheckAlertOverridesWarning(t *testing.T) {
	user := activeUser(1, "alice")
	warnDate := time.Now().AddDate(0, 0, -10)
	deadDate := time.Now().AddDate(0, 0, -30)
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/stale", Status: string(github.StatusActive),
			LastCommitDate: &warnDate, LastCommitSha: util.PtrString("w1")},
		{ID: 2, UserID: 1, FullName: "alice/dead", Status: string(github.StatusWarning),
			LastCommitDate: &deadDate, LastCommitSha: util.PtrString("d1")},
	})

	_, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, string(github.StatusWarning), f.repos.repos[1].Status)
	assert.Equal(t, string(github.StatusInactive), f.repos.repos[2].Status)
	// 同轮既有降为 warning 又有降为 inactive：只发一条降级提醒
	assert.Equal(t, 1, f.notifier.alerts)
	assert.Equal(t, 0, f.notifier.warnings)
}

func TestRunDailyCheckProgressAndFeed(t *testing.T) {
	user := activeUser(1, "alice")
	baseline := time.Now().Add(-48 * time.Hour)
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/repo", Status: string(github.StatusActive),
			LastCommitDate: &baseline, LastCommitSha: util.PtrString("old")},
	})

	now := time.Now()
	f.gh.commits["alice/repo"] = []*github.Commit{
		{Sha: "new2", Message: "fix", Date: now.Add(-time.Hour), FilesChanged: 2, Additions: 5, Deletions: 1},
		{Sha: "new1", Message: "feat", Date: now.Add(-2 * time.Hour), FilesChanged: 1, Additions: 3},
		{Sha: "old", Message: "baseline", Date: baseline},
	}

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Errors)

	// 活动流记录两条新提交
	assert.Len(t, f.activity.entries, 2)
	assert.Equal(t, "new2", f.activity.entries[0].CommitSha)

	// 成长统计：提交数累加、经验折算、连胜 +1
	progress := f.progress.rows[1]
	require.NotNil(t, progress)
	assert.Equal(t, int64(2), progress.TotalCommits)
	assert.Equal(t, int64(2*ExperiencePerCommit), progress.Experience)
	assert.Equal(t, 1, progress.CurrentStreak)

	// 仓库指针前移
	assert.Equal(t, "new2", *f.repos.repos[1].LastCommitSha)
	assert.NotNil(t, f.users.users[1].LastActive)
}

func TestRunDailyCheckViberSingleChampion(t *testing.T) {
	alice := activeUser(1, "alice")
	bob := activeUser(2, "bob")

	nowish := time.Now().Add(-time.Hour)
	staleDate := time.Now().AddDate(0, 0, -20)
	f := newCheckFixture([]*model.User{alice, bob}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/hot", Status: string(github.StatusActive),
			LastCommitDate: &nowish, LastCommitSha: util.PtrString("a1")},
		{ID: 2, UserID: 2, FullName: "bob/cold", Status: string(github.StatusInactive),
			LastCommitDate: &staleDate, LastCommitSha: util.PtrString("b1")},
	})

	_, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	vibers := 0
	var champion uint64
	for _, st := range f.weekly.stats {
		if st.IsViber {
			vibers++
			champion = st.UserID
		}
	}
	assert.Equal(t, 1, vibers)
	assert.Equal(t, uint64(1), champion)

	// 再评一轮仍然只有一个冠军
	_, err = f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	vibers = 0
	for _, st := range f.weekly.stats {
		if st.IsViber {
			vibers++
		}
	}
	assert.Equal(t, 1, vibers)
}

func TestRunDailyCheckViberVacantWhenNoPositiveScore(t *testing.T) {
	bob := activeUser(2, "bob")
	staleDate := time.Now().AddDate(0, 0, -20)
	f := newCheckFixture([]*model.User{bob}, []*model.Repository{
		{ID: 1, UserID: 2, FullName: "bob/cold", Status: string(github.StatusInactive),
			LastCommitDate: &staleDate, LastCommitSha: util.PtrString("b1")},
	})

	_, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	// 无人得分为正，本周空缺；上一轮的旧冠军标记也要被清掉
	for _, st := range f.weekly.stats {
		st.IsViber = true
	}
	_, err = f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	for _, st := range f.weekly.stats {
		assert.False(t, st.IsViber)
	}
}

func TestRunDailyCheckStaleRepoScenario(t *testing.T) {
	// 单仓库 20 天没动静：状态降为 inactive，尝试发提醒，last_active 不变
	user := activeUser(1, "alice")
	staleDate := time.Now().AddDate(0, 0, -20)
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/stale", Status: string(github.StatusWarning),
			LastCommitDate: &staleDate, LastCommitSha: util.PtrString("s1")},
	})

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RepositoriesUpdated)
	assert.Equal(t, string(github.StatusInactive), f.repos.repos[1].Status)
	assert.Equal(t, 1, f.notifier.alerts)
	assert.Nil(t, f.users.users[1].LastActive)

	// 连胜归零
	progress := f.progress.rows[1]
	require.NotNil(t, progress)
	assert.Equal(t, 0, progress.CurrentStreak)
}

func TestRunDailyCheckRepeatedInactiveStillAlerts(t *testing.T) {
	// 仓库早已是 inactive、本轮没有任何状态迁移，也要按当前状态提醒
	user := activeUser(1, "alice")
	staleDate := time.Now().AddDate(0, 0, -30)
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/dormant", Status: string(github.StatusInactive),
			LastCommitDate: &staleDate, LastCommitSha: util.PtrString("d1")},
	})

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.RepositoriesUpdated)
	assert.Equal(t, 1, f.notifier.alerts)

	// 一直不恢复提交就每轮都提醒
	_, err = f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.notifier.alerts)
}

func TestRunDailyCheckRateLimitDoesNotAbortRun(t *testing.T) {
	// 某个仓库撞上限流只算该仓库失败，后续用户照常巡检
	alice := activeUser(1, "alice")
	bob := activeUser(2, "bob")
	baseline := time.Now().Add(-48 * time.Hour)
	f := newCheckFixture([]*model.User{alice, bob}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/limited", Status: string(github.StatusActive),
			LastCommitDate: &baseline, LastCommitSha: util.PtrString("a1")},
		{ID: 2, UserID: 2, FullName: "bob/fresh", Status: string(github.StatusPending)},
	})

	f.gh.fail["alice/limited"] = errors.Wrap(github.ErrRateLimited, "额度耗尽")
	f.gh.commits["bob/fresh"] = []*github.Commit{
		{Sha: "b1", Message: "feat: y", Date: time.Now().Add(-time.Hour), FilesChanged: 1},
	}

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.UsersChecked)
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, string(github.StatusActive), f.repos.repos[2].Status)
	// 限流的仓库保持原状态，等下一轮重试
	assert.Equal(t, string(github.StatusActive), f.repos.repos[1].Status)
}

func TestRunDailyCheckViberSkipsVacationingScorer(t *testing.T) {
	alice := activeUser(1, "alice")
	bob := activeUser(2, "bob")
	nowish := time.Now().Add(-time.Hour)
	f := newCheckFixture([]*model.User{alice, bob}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/hot", Status: string(github.StatusActive),
			LastCommitDate: &nowish, LastCommitSha: util.PtrString("a1")},
		{ID: 2, UserID: 2, FullName: "bob/warm", Status: string(github.StatusActive),
			LastCommitDate: &nowish, LastCommitSha: util.PtrString("b1")},
	})

	// 第一轮同分，user_id 较小的 alice 胜出
	_, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	// alice 转入休假后不再参评，即便周榜上还留着她的得分
	future := time.Now().Add(72 * time.Hour)
	f.users.users[1].OnVacation = true
	f.users.users[1].VacationUntil = &future

	_, err = f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)

	vibers := 0
	var champion uint64
	for _, st := range f.weekly.stats {
		if st.IsViber {
			vibers++
			champion = st.UserID
		}
	}
	assert.Equal(t, 1, vibers)
	assert.Equal(t, uint64(2), champion)
}

func TestRunDailyCheckAuthFailureKeepsRemainingRepos(t *testing.T) {
	// 令牌失效中断该用户的巡检，剩下没查到的仓库按上次状态记账
	user := activeUser(1, "alice")
	warnDate := time.Now().AddDate(0, 0, -10)
	nowish := time.Now().Add(-time.Hour)
	f := newCheckFixture([]*model.User{user}, []*model.Repository{
		{ID: 1, UserID: 1, FullName: "alice/first", Status: string(github.StatusWarning),
			LastCommitDate: &warnDate, LastCommitSha: util.PtrString("f1")},
		{ID: 2, UserID: 1, FullName: "alice/second", Status: string(github.StatusActive),
			LastCommitDate: &nowish, LastCommitSha: util.PtrString("s1")},
	})

	f.gh.fail["alice/first"] = errors.Wrap(github.ErrAuth, "凭证失效")
	f.gh.fail["alice/second"] = errors.Wrap(github.ErrAuth, "凭证失效")

	summary, err := f.svc.RunDailyCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)

	week := util.WeekIdentifier(time.Now())
	stat := f.weekly.stats[weeklyKey(1, week)]
	require.NotNil(t, stat)
	assert.Equal(t, consts.ViberActiveWeight+consts.ViberWarningWeight, stat.Score)
	assert.Equal(t, 1, stat.ActiveRepoCount)

	// 第二个仓库按上次的 active 状态参与连胜
	assert.Equal(t, 1, f.progress.rows[1].CurrentStreak)
}

func TestRefreshRepositoryNoToken(t *testing.T) {
	f := newCheckFixture(nil, nil)

	_, err := f.svc.RefreshRepository(context.Background(), &model.User{ID: 1}, &model.Repository{ID: 1})
	assert.ErrorIs(t, err, ErrNoGithubToken)
}

func TestRefreshRepositoryManualSync(t *testing.T) {
	user := activeUser(1, "alice")
	repo := &model.Repository{ID: 1, UserID: 1, FullName: "alice/repo", Status: string(github.StatusPending)}
	f := newCheckFixture([]*model.User{user}, []*model.Repository{repo})

	now := time.Now()
	f.gh.commits["alice/repo"] = []*github.Commit{
		{Sha: "first", Message: "init", Date: now.Add(-time.Hour), FilesChanged: 1},
	}

	refreshed, err := f.svc.RefreshRepository(context.Background(), user, repo)
	require.NoError(t, err)
	assert.Equal(t, string(github.StatusActive), refreshed.Status)
	assert.Equal(t, "first", *refreshed.LastCommitSha)
}
