package service

import (
	"VibeHub/internal/api/config"
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/github"
	"VibeHub/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifierFactorySelectsByPreference(t *testing.T) {
	factory := NewNotifierFactory(&config.Config{})

	emailUser := &model.User{NotificationPref: consts.NotifyPrefEmail}
	telegramUser := &model.User{NotificationPref: consts.NotifyPrefTelegram}

	assert.IsType(t, &emailNotifier{}, factory.ForUser(emailUser))
	assert.IsType(t, &telegramNotifier{}, factory.ForUser(telegramUser))
}

func TestFilterByStatus(t *testing.T) {
	repos := []*model.Repository{
		{FullName: "a/active", Status: string(github.StatusActive)},
		{FullName: "b/warning", Status: string(github.StatusWarning)},
		{FullName: "c/inactive", Status: string(github.StatusInactive)},
		{FullName: "d/warning", Status: string(github.StatusWarning)},
	}

	warnings := filterByStatus(repos, github.StatusWarning)
	assert.Len(t, warnings, 2)
	assert.Equal(t, "b/warning", warnings[0].FullName)

	inactive := filterByStatus(repos, github.StatusInactive)
	assert.Len(t, inactive, 1)
}

func TestEmailNotifierNoTargetsIsNoop(t *testing.T) {
	// 全部活跃时没有可提醒内容，视为送达
	notifier := &emailNotifier{}
	user := &model.User{Username: "alice", Email: util.PtrString("a@example.com")}
	repos := []*model.Repository{
		{FullName: "a/repo", Status: string(github.StatusActive)},
	}

	assert.True(t, notifier.SendInactivityWarning(context.Background(), user, repos))
	assert.True(t, notifier.SendInactivityAlert(context.Background(), user, repos))
}

func TestEmailNotifierWithoutConfig(t *testing.T) {
	notifier := &emailNotifier{}
	user := &model.User{Username: "alice", Email: util.PtrString("a@example.com")}
	repos := []*model.Repository{
		{FullName: "a/repo", Status: string(github.StatusWarning)},
	}

	assert.False(t, notifier.SendInactivityWarning(context.Background(), user, repos))
}

func TestTelegramNotifierWithoutChatID(t *testing.T) {
	notifier := &telegramNotifier{}
	user := &model.User{Username: "bob"}
	repos := []*model.Repository{
		{FullName: "b/repo", Status: string(github.StatusInactive)},
	}

	assert.False(t, notifier.SendInactivityAlert(context.Background(), user, repos))
}

func TestFormatRepoList(t *testing.T) {
	date := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	repos := []*model.Repository{
		{FullName: "alice/project", LastCommitDate: &date},
		{FullName: "alice/empty"},
	}

	text := formatRepoList(repos)
	assert.Contains(t, text, "alice/project")
	assert.Contains(t, text, "2026-08-20")
	assert.Contains(t, text, "alice/empty")
}
