package github

import (
	"github.com/pkg/errors"
)

// 外呼 GitHub 的错误分级，调度器按类别决定跳过还是等下一轮
var (
	// ErrAuth 令牌失效，用户需要重新授权，本轮直接跳过
	ErrAuth = errors.New("github: token invalid or expired")
	// ErrRateLimited 限额耗尽，不主动等待，下个小时窗口自然恢复
	ErrRateLimited = errors.New("github: rate limit exceeded")
	// ErrNotFound 仓库被删除/改名/失去访问权
	ErrNotFound = errors.New("github: repository not found")
	// ErrTransient 网络或超时类故障，下一轮巡检自然重试
	ErrTransient = errors.New("github: transient request failure")

	// errEmptyRepo 空仓库的 commits 接口会给 409，当作"没有提交"处理
	errEmptyRepo = errors.New("github: repository has no commits")
)

// classifyStatus 将 HTTP 状态码翻译为错误类别
func classifyStatus(code int) error {
	switch code {
	case 401:
		return ErrAuth
	case 403, 429:
		return ErrRateLimited
	case 404:
		return ErrNotFound
	case 409:
		return errEmptyRepo
	default:
		return errors.Wrapf(ErrTransient, "unexpected status %d", code)
	}
}
