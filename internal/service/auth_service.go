package service

import (
	"context"
	"strings"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/jwt"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authentication business logic
type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Me(ctx context.Context, actor *domain.Actor) (*domain.User, error)
}

type authService struct {
	users      repository.UserRepository
	jwtManager *jwt.Manager
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{users: users, jwtManager: jwtManager, now: time.Now}
}

// Login checks the credentials and issues a token pair
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.TouchLastSignedIn(ctx, user.ID, now); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("user_id", user.ID).Msg("failed to record sign-in time")
	} else {
		user.LastSignedIn = &now
	}

	return &domain.LoginResponse{TokenPair: *pair, User: user}, nil
}

// Refresh exchanges a refresh token for a new pair. The account is re-read so role changes apply.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}
	claims, err := s.jwtManager.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, common.ErrAccountDisabled
	}
	return s.issue(user)
}

// Me returns the caller's account
func (s *authService) Me(ctx context.Context, actor *domain.Actor) (*domain.User, error) {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) issue(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, string(user.Role), user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.AccessTTL().Seconds()),
	}, nil
}
