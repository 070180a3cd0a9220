package github

import (
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	apiBaseURL = "https://api.github.com"
	userAgent  = "VibeHub-Tracker"

	requestTimeout = 10 * time.Second

	// RateLimitPerHour 每小时请求上限，整点窗口复位（固定窗口近似）
	RateLimitPerHour = 5000

	commitsPerPage = 100
	maxCommitPages = 20
)

// User GitHub /user 响应中我们关心的字段
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Repository GitHub /repos/{full_name} 响应
type Repository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
	Language string `json:"language"`
}

// Commit 提交元数据，Stats 仅在单条详情接口返回
type Commit struct {
	Sha          string
	Message      string
	AuthorName   string
	AuthorEmail  string
	Date         time.Time
	FilesChanged int
	Additions    int
	Deletions    int
}

// Content /contents/{path} 响应
type Content struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Client 封装对 GitHub REST API 的全部外呼。
// 令牌按调用传入，实例本身无用户态，可被顺序或并发复用。
type Client interface {
	GetAuthenticatedUser(ctx context.Context, token string) (*User, error)
	GetRepository(ctx context.Context, token, fullName string) (*Repository, error)
	GetLatestCommit(ctx context.Context, token, fullName string) (*Commit, error)
	GetCommit(ctx context.Context, token, fullName, sha string) (*Commit, error)
	GetCommitsSince(ctx context.Context, token, fullName, sinceSha string) ([]*Commit, error)
	GetContents(ctx context.Context, token, fullName, path string) (*Content, error)
}

type clientImpl struct {
	http    *resty.Client
	limiter *rateLimiter
}

func NewClient() Client {
	return &clientImpl{
		http: resty.New().
			SetBaseURL(apiBaseURL).
			SetTimeout(requestTimeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "application/vnd.github+json"),
		limiter: &rateLimiter{limit: RateLimitPerHour},
	}
}

// rateLimiter 进程内固定窗口计数器，窗口按整点切换
type rateLimiter struct {
	mu          sync.Mutex
	limit       int
	windowStart time.Time
	count       int
}

func (s *rateLimiter) allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	hour := time.Now().Truncate(time.Hour)
	if !hour.Equal(s.windowStart) {
		s.windowStart = hour
		s.count = 0
	}

	if s.count >= s.limit {
		return false
	}
	s.count++
	return true
}

// do 发起一次请求并把失败翻译成错误类别
func (s *clientImpl) do(ctx context.Context, token, path string, query map[string]string, out interface{}) error {
	if !s.limiter.allow() {
		return errors.Wrap(ErrRateLimited, "local request budget exhausted")
	}

	req := s.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "token "+token)
	if query != nil {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Get(path)
	if err != nil {
		return errors.Wrapf(ErrTransient, "GET %s: %v", path, err)
	}
	if resp.IsError() {
		return errors.Wrapf(classifyStatus(resp.StatusCode()), "GET %s", path)
	}
	return nil
}

func (s *clientImpl) GetAuthenticatedUser(ctx context.Context, token string) (*User, error) {
	var user User
	if err := s.do(ctx, token, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *clientImpl) GetRepository(ctx context.Context, token, fullName string) (*Repository, error) {
	var repo Repository
	if err := s.do(ctx, token, "/repos/"+fullName, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// commitResponse 提交列表/详情接口的公共结构
type commitResponse struct {
	Sha    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Stats struct {
		Additions int `json:"additions"`
		Deletions int `json:"deletions"`
	} `json:"stats"`
	Files []struct {
		Filename string `json:"filename"`
	} `json:"files"`
}

func (r *commitResponse) toCommit() *Commit {
	return &Commit{
		Sha:          r.Sha,
		Message:      r.Commit.Message,
		AuthorName:   r.Commit.Author.Name,
		AuthorEmail:  r.Commit.Author.Email,
		Date:         r.Commit.Author.Date,
		FilesChanged: len(r.Files),
		Additions:    r.Stats.Additions,
		Deletions:    r.Stats.Deletions,
	}
}

// GetLatestCommit 返回最近一次提交，仓库没有任何提交时返回 nil
func (s *clientImpl) GetLatestCommit(ctx context.Context, token, fullName string) (*Commit, error) {
	var page []commitResponse
	err := s.do(ctx, token, "/repos/"+fullName+"/commits", map[string]string{
		"per_page": "1",
	}, &page)
	if err != nil {
		if errors.Is(err, errEmptyRepo) {
			return nil, nil
		}
		return nil, err
	}
	if len(page) == 0 {
		return nil, nil
	}
	return page[0].toCommit(), nil
}

// GetCommit 单条提交详情，带变更统计
func (s *clientImpl) GetCommit(ctx context.Context, token, fullName, sha string) (*Commit, error) {
	var resp commitResponse
	if err := s.do(ctx, token, "/repos/"+fullName+"/commits/"+sha, nil, &resp); err != nil {
		return nil, err
	}
	return resp.toCommit(), nil
}

// GetCommitsSince 拉取增量提交。
// 给了 sinceSha：以该提交的时间为锚点取其后的提交（不含锚点自身）；
// 没给：从最新往回翻页，最多 20 页 × 100 条。
// 翻页途中的失败不会让整个调用失败，收集到多少返回多少。
func (s *clientImpl) GetCommitsSince(ctx context.Context, token, fullName, sinceSha string) ([]*Commit, error) {
	query := map[string]string{
		"per_page": "100",
	}

	if sinceSha != "" {
		anchor, err := s.GetCommit(ctx, token, fullName, sinceSha)
		if err != nil {
			return nil, err
		}
		query["since"] = anchor.Date.UTC().Format(time.RFC3339)
	}

	collected := make([]*Commit, 0)

	for page := 1; page <= maxCommitPages; page++ {
		query["page"] = strconv.Itoa(page)

		var batch []commitResponse
		err := s.do(ctx, token, "/repos/"+fullName+"/commits", query, &batch)
		if err != nil {
			log.WarnContext(ctx, "commit pagination aborted",
				"repo", fullName, "page", page, "err", err)
			break
		}

		for i := range batch {
			if batch[i].Sha == sinceSha {
				continue
			}
			collected = append(collected, batch[i].toCommit())
		}

		if len(batch) < commitsPerPage {
			break
		}
	}

	return collected, nil
}

func (s *clientImpl) GetContents(ctx context.Context, token, fullName, path string) (*Content, error) {
	var content Content
	if err := s.do(ctx, token, "/repos/"+fullName+"/contents/"+path, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
