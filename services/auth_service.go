package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodorder/apperr"
	"foodorder/auth"
	"foodorder/models"
	"foodorder/mylogger"
	"foodorder/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session is a signed-in user and the bearer token issued for it.
type Session struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*Session, error)
	CreateAdmin(ctx context.Context, in RegisterInput) (*Session, error)
	Login(ctx context.Context, login, password string) (*Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (models.Identity, error)
	Me(ctx context.Context, caller models.Identity) (*models.User, error)
}

type authService struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	blacklist auth.Blacklist
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, blacklist auth.Blacklist, logger *zap.Logger) AuthService {
	return &authService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	return s.createUser(ctx, in, models.RoleUser)
}

// CreateAdmin bootstraps the first admin account and refuses once one exists.
func (s *authService) CreateAdmin(ctx context.Context, in RegisterInput) (*Session, error) {
	admins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to count admins", zap.Error(err))
		return nil, apperr.Internal(err, "failed to create admin")
	}
	if admins > 0 {
		return nil, apperr.Forbidden("admin account already exists")
	}
	return s.createUser(ctx, in, models.RoleAdmin)
}

func (s *authService) createUser(ctx context.Context, in RegisterInput, role models.Role) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Name == "" || in.Email == "" {
		return nil, apperr.InvalidInput("name and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.InvalidInput("password must be at least %d characters long", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Error hashing password", zap.Error(err))
		return nil, apperr.Internal(err, "failed to register")
	}

	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, apperr.Conflict("email or phone already registered")
		}
		mylogger.Error(ctx, s.logger, "Failed to create user", zap.Error(err))
		return nil, apperr.Internal(err, "failed to register")
	}

	mylogger.Info(ctx, s.logger, "User registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(role)))
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthenticated("invalid login or password")
		}
		mylogger.Error(ctx, s.logger, "Failed to load user", zap.Error(err))
		return nil, apperr.Internal(err, "failed to login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperr.Unauthenticated("invalid login or password")
	}

	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal(err, "failed to issue token")
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperr.Unauthenticated("invalid token")
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to blacklist token", zap.Error(err))
		return apperr.Internal(err, "failed to logout")
	}
	return nil
}

// Authenticate verifies a bearer token and resolves the caller identity.
func (s *authService) Authenticate(ctx context.Context, token string) (models.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Identity{}, apperr.Unauthenticated("invalid or expired token")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to check token blacklist", zap.Error(err))
		return models.Identity{}, apperr.Internal(err, "failed to verify token")
	}
	if revoked {
		return models.Identity{}, apperr.Unauthenticated("token has been revoked")
	}

	identity, err := claims.Identity()
	if err != nil {
		return models.Identity{}, apperr.Unauthenticated("invalid or expired token")
	}
	return identity, nil
}

func (s *authService) Me(ctx context.Context, caller models.Identity) (*models.User, error) {
	user, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err, "failed to load user")
	}
	return user, nil
}
