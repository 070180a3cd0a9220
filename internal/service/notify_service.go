package service

import (
	"VibeHub/internal/api/config"
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/github"
	"context"
	"fmt"
	log "log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gopkg.in/gomail.v2"
)

// Notifier 活跃度提醒的发送能力
// 返回值只表示"这次有没有发出去"，任何发送失败都在内部消化，绝不向上抛
type Notifier interface {
	SendInactivityWarning(ctx context.Context, user *model.User, repos []*model.Repository) bool
	SendInactivityAlert(ctx context.Context, user *model.User, repos []*model.Repository) bool
}

// NotifierFactory 按用户偏好选择通知渠道
type NotifierFactory interface {
	ForUser(user *model.User) Notifier
}

type notifierFactoryImpl struct {
	email    *emailNotifier
	telegram *telegramNotifier
}

// NewNotifierFactory 初始化两种渠道，缺配置的渠道降级为不可用而不是报错
func NewNotifierFactory(cfg *config.Config) NotifierFactory {
	factory := &notifierFactoryImpl{
		email:    &emailNotifier{},
		telegram: &telegramNotifier{},
	}

	if cfg.SMTP.Host != "" {
		factory.email.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		factory.email.from = cfg.SMTP.From
	} else {
		log.Warn("SMTP not configured, email notifications disabled")
	}

	if cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Warn("Telegram bot init failed, telegram notifications disabled", "err", err)
		} else {
			factory.telegram.bot = bot
		}
	} else {
		log.Warn("Telegram not configured, telegram notifications disabled")
	}

	return factory
}

func (s *notifierFactoryImpl) ForUser(user *model.User) Notifier {
	if user.NotificationPref == consts.NotifyPrefTelegram {
		return s.telegram
	}
	return s.email
}

// filterByStatus 提醒内容只包含对应状态的仓库
func filterByStatus(repos []*model.Repository, status github.Status) []*model.Repository {
	filtered := make([]*model.Repository, 0)
	for _, repo := range repos {
		if repo.Status == string(status) {
			filtered = append(filtered, repo)
		}
	}
	return filtered
}

func formatRepoList(repos []*model.Repository) string {
	var builder strings.Builder
	for _, repo := range repos {
		builder.WriteString("- ")
		builder.WriteString(repo.FullName)
		if repo.LastCommitDate != nil {
			builder.WriteString(fmt.Sprintf("（最近提交 %s）", repo.LastCommitDate.Format("2006-01-02")))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// ---- Email ----

type emailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func (s *emailNotifier) SendInactivityWarning(ctx context.Context, user *model.User, repos []*model.Repository) bool {
	targets := filterByStatus(repos, github.StatusWarning)
	if len(targets) == 0 {
		return true
	}
	subject := "【VibeHub】仓库活跃度预警"
	body := fmt.Sprintf("你好 %s，\n\n以下仓库已超过 %d 天没有提交，再不动手就要降为 inactive 了：\n\n%s",
		user.Username, github.ActiveThresholdDays, formatRepoList(targets))
	return s.send(ctx, user, subject, body)
}

func (s *emailNotifier) SendInactivityAlert(ctx context.Context, user *model.User, repos []*model.Repository) bool {
	targets := filterByStatus(repos, github.StatusInactive)
	if len(targets) == 0 {
		return true
	}
	subject := "【VibeHub】仓库已进入不活跃状态"
	body := fmt.Sprintf("你好 %s，\n\n以下仓库已超过 %d 天没有提交，状态已降为 inactive：\n\n%s",
		user.Username, github.WarningThresholdDays, formatRepoList(targets))
	return s.send(ctx, user, subject, body)
}

func (s *emailNotifier) send(ctx context.Context, user *model.User, subject, body string) bool {
	if s.dialer == nil {
		return false
	}
	if user.Email == nil || *user.Email == "" {
		return false
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", *user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		log.ErrorContext(ctx, "send email failed", "user", user.Username, "err", err)
		return false
	}
	return true
}

// ---- Telegram ----

type telegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func (s *telegramNotifier) SendInactivityWarning(ctx context.Context, user *model.User, repos []*model.Repository) bool {
	targets := filterByStatus(repos, github.StatusWarning)
	if len(targets) == 0 {
		return true
	}
	text := fmt.Sprintf("*仓库活跃度预警*\n\n以下仓库已超过 %d 天没有提交：\n\n%s",
		github.ActiveThresholdDays, formatRepoList(targets))
	return s.send(ctx, user, text)
}

func (s *telegramNotifier) SendInactivityAlert(ctx context.Context, user *model.User, repos []*model.Repository) bool {
	targets := filterByStatus(repos, github.StatusInactive)
	if len(targets) == 0 {
		return true
	}
	text := fmt.Sprintf("*仓库已进入不活跃状态*\n\n以下仓库已超过 %d 天没有提交：\n\n%s",
		github.WarningThresholdDays, formatRepoList(targets))
	return s.send(ctx, user, text)
}

func (s *telegramNotifier) send(ctx context.Context, user *model.User, text string) bool {
	// 没绑定 chat id 不算错误，静默跳过
	if s.bot == nil || user.TelegramChatID == nil {
		return false
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := s.bot.Send(msg); err != nil {
		log.ErrorContext(ctx, "send telegram message failed", "user", user.Username, "err", err)
		return false
	}
	return true
}
