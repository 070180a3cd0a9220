package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrUserNotFound        = errors.New("用户不存在")
	ErrRepoNotFound        = errors.New("仓库不存在")
	ErrRepoExist           = errors.New("仓库已添加过")
	ErrRepoUnreachable     = errors.New("GitHub 上找不到该仓库或无权访问")
	ErrNoGithubToken       = errors.New("缺少 GitHub 授权，请重新登录")
	ErrOAuthStateInvalid   = errors.New("授权状态校验失败，请重新发起登录")
	ErrOAuthExchange       = errors.New("GitHub 授权失败")
	ErrVacationInvalid     = errors.New("休假截止时间必须在未来")
	ErrNotRepoOwner        = errors.New("只能操作自己的仓库")
	ErrCheckAlreadyRunning = errors.New("巡检正在进行中，请稍后再试")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrUserNotFound:        NotFound,
	ErrRepoNotFound:        NotFound,
	ErrRepoExist:           BadRequest,
	ErrRepoUnreachable:     BadRequest,
	ErrNoGithubToken:       Unauthorized,
	ErrOAuthStateInvalid:   Unauthorized,
	ErrOAuthExchange:       Unauthorized,
	ErrVacationInvalid:     BadRequest,
	ErrNotRepoOwner:        Forbidden,
	ErrCheckAlreadyRunning: BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
