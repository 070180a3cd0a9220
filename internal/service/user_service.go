package service

import (
	"VibeHub/internal/api/dto"
	"VibeHub/internal/model"
	"VibeHub/internal/pkg/consts"
	"VibeHub/internal/pkg/github"
	"VibeHub/internal/pkg/oauth"
	"VibeHub/internal/pkg/redis"
	"VibeHub/internal/pkg/security"
	"VibeHub/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const userCacheTTL = 10 * time.Minute

type UserService interface {
	BuildAuthURL(ctx context.Context) (string, error)
	LoginWithGitHub(ctx context.Context, state, code string) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, update *dto.UpdateUserDTO) error
	SetVacation(ctx context.Context, id uint64, until time.Time) error
	ClearVacation(ctx context.Context, id uint64) error
	ListUsers(ctx context.Context) ([]*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	provider *oauth.GitHubProvider
	github   github.Client
	cipher   *security.TokenCipher
}

func NewUserService(
	userRepo repository.UserRepo,
	provider *oauth.GitHubProvider,
	ghClient github.Client,
	cipher *security.TokenCipher,
) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		provider: provider,
		github:   ghClient,
		cipher:   cipher,
	}
}

// BuildAuthURL 生成授权跳转地址，state 存 redis 防 CSRF
func (s *UserServiceImpl) BuildAuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := redis.SetWithExpiration(ctx, consts.OAuthStateKey+state, "1", 10*time.Minute); err != nil {
		return "", err
	}
	return s.provider.AuthURL(state), nil
}

// LoginWithGitHub 完成授权码换取、用户落库与会话签发
func (s *UserServiceImpl) LoginWithGitHub(ctx context.Context, state, code string) (string, error) {
	stateKey := consts.OAuthStateKey + state
	value, err := redis.GetValue(ctx, stateKey)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", ErrOAuthStateInvalid
	}
	_ = redis.DeleteKey(ctx, stateKey)

	accessToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		log.ErrorContext(ctx, "oauth exchange failed", "err", err)
		return "", ErrOAuthExchange
	}

	ghUser, err := s.github.GetAuthenticatedUser(ctx, accessToken)
	if err != nil {
		log.ErrorContext(ctx, "fetch github user failed", "err", err)
		return "", ErrOAuthExchange
	}

	encrypted, err := s.cipher.Encrypt(accessToken)
	if err != nil {
		return "", err
	}

	user, err := s.upsertUser(ctx, ghUser, encrypted)
	if err != nil {
		return "", err
	}

	return security.GenerateToken(user.ID, user.IsAdmin)
}

// upsertUser 按 github_id 建档或刷新资料，每次登录都换最新令牌
func (s *UserServiceImpl) upsertUser(ctx context.Context, ghUser *github.User, encryptedToken string) (*model.User, error) {
	user, err := s.userRepo.GetUserByGithubId(ctx, ghUser.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &model.User{
			GithubID:         ghUser.ID,
			Username:         ghUser.Login,
			NotificationPref: consts.NotifyPrefEmail,
			AccessToken:      &encryptedToken,
		}
		if ghUser.Email != "" {
			user.Email = &ghUser.Email
		}
		if ghUser.Name != "" {
			user.Name = &ghUser.Name
		}
		if ghUser.AvatarURL != "" {
			user.AvatarURL = &ghUser.AvatarURL
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	updates := map[string]interface{}{
		"username":     ghUser.Login,
		"access_token": encryptedToken,
	}
	if ghUser.Email != "" {
		updates["email"] = ghUser.Email
	}
	if ghUser.AvatarURL != "" {
		updates["avatar_url"] = ghUser.AvatarURL
	}

	updated, err := s.userRepo.UpdateUser(ctx, user.ID, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, user.ID)
	return updated, nil
}

// Logout 把 token 签名拉黑到过期为止
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrParamInvalid
	}
	return redis.SetWithExpiration(ctx, signature, "revoked", security.JWTExpirationTime)
}

// GetUserInfo 带 TTL 的 redis 缓存，更新操作负责失效
func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	cacheKey := consts.UserInfoKey + strconv.FormatUint(id, 10)

	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		var userDTO dto.UserDTO
		if err := json.Unmarshal([]byte(cached), &userDTO); err == nil {
			return &userDTO, nil
		}
	}

	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(userDTO); err == nil {
		_ = redis.SetWithExpiration(ctx, cacheKey, string(data), userCacheTTL)
	}

	return userDTO, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, update *dto.UpdateUserDTO) error {
	updates := map[string]interface{}{}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.NotificationPref != nil {
		updates["notification_pref"] = *update.NotificationPref
	}
	if update.TelegramChatID != nil {
		updates["telegram_chat_id"] = *update.TelegramChatID
	}
	if len(updates) == 0 {
		return nil
	}

	user, err := s.userRepo.UpdateUser(ctx, id, updates)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *UserServiceImpl) SetVacation(ctx context.Context, id uint64, until time.Time) error {
	if !until.After(time.Now()) {
		return ErrVacationInvalid
	}

	user, err := s.userRepo.UpdateUser(ctx, id, map[string]interface{}{
		"on_vacation":    true,
		"vacation_until": until,
	})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *UserServiceImpl) ClearVacation(ctx context.Context, id uint64) error {
	user, err := s.userRepo.UpdateUser(ctx, id, map[string]interface{}{
		"on_vacation":    false,
		"vacation_until": nil,
	})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		userDTO, err := toUserDTO(user)
		if err != nil {
			return nil, err
		}
		result = append(result, userDTO)
	}
	return result, nil
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx, id)
	return nil
}

func (s *UserServiceImpl) invalidateCache(ctx context.Context, id uint64) {
	_ = redis.DeleteKey(ctx, consts.UserInfoKey+strconv.FormatUint(id, 10))
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	userDTO.UserID = user.ID
	return userDTO, nil
}
