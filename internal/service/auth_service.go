package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-todo/internal/core/session"
	"go-gin-todo/internal/domain"
	"go-gin-todo/pkg/utils"
)

type AuthService struct {
	users    domain.UserRepository
	sessions session.Store
	log      *zap.Logger
}

func NewAuthService(users domain.UserRepository, sessions session.Store, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, sessions: sessions, log: log}
}

// Register 注册新用户。重名由存储层唯一索引兜底，
// 这里的预查只是为了给出友好提示，并发下不可依赖。
func (s *AuthService) Register(ctx context.Context, name, username, password, password2 string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)

	if name == "" || username == "" || password == "" || password2 == "" {
		return nil, domain.Invalid("all fields are required")
	}
	if password != password2 {
		return nil, domain.Invalid("passwords do not match")
	}

	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Username:     username,
		PasswordHash: utils.HashPassword(password),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login 用户名不存在和密码错误返回同一个错误，不给枚举用户名的机会
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.sessions.Create(ctx, session.Identity{UserID: u.ID, UserName: u.Name})
	if err != nil {
		return "", err
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return token, nil
}

// Logout 幂等，token 不存在也算成功
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}
