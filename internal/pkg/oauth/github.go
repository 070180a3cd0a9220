package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubProvider 封装 GitHub 授权码模式
// code 换 token 在服务端完成，access token 不经过浏览器
type GitHubProvider struct {
	config *oauth2.Config
}

func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			// repo 范围用于读私有仓库的提交记录
			Scopes:   []string{"read:user", "user:email", "repo"},
			Endpoint: github.Endpoint,
		},
	}
}

// AuthURL 返回带防 CSRF state 的授权跳转地址
func (s *GitHubProvider) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange 用授权码换取 access token
func (s *GitHubProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}
