package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/migration"
	"github.com/nabaa/newsroom/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// UserService dashboard account management
type UserService interface {
	List(ctx context.Context, actor *domain.Actor, search string, role domain.Role, page, perPage int) ([]*domain.User, *common.Meta, error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error)
	Create(ctx context.Context, actor *domain.Actor, req *domain.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateUserRequest) (*domain.User, error)
	ResetPassword(ctx context.Context, actor *domain.Actor, id, newPassword string) error
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Stats(ctx context.Context, actor *domain.Actor) (*domain.UserStats, error)
}

type userService struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

func (s *userService) List(ctx context.Context, actor *domain.Actor, search string, role domain.Role, page, perPage int) ([]*domain.User, *common.Meta, error) {
	if err := domain.Require(actor, domain.RoleAdmin); err != nil {
		return nil, nil, err
	}
	if role != "" && !role.Valid() {
		return nil, nil, common.ErrInvalidInput
	}
	users, total, err := s.repo.List(ctx, strings.TrimSpace(search), role, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return users, common.NewMeta(page, perPage, total), nil
}

// Get is allowed for admins and for the account owner
func (s *userService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error) {
	if err := s.requireAdminOrSelf(actor, id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *userService) Create(ctx context.Context, actor *domain.Actor, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := domain.Require(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Name) == "" || len(req.Password) < minPasswordLength {
		return nil, common.ErrInvalidInput
	}
	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, common.ErrInvalidInput
	}

	taken, err := s.repo.EmailExists(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrEmailTaken
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Password:    hash,
		LoginMethod: "password",
		Role:        role,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial update. Only admins may change role or active state.
func (s *userService) Update(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateUserRequest) (*domain.User, error) {
	if err := s.requireAdminOrSelf(actor, id); err != nil {
		return nil, err
	}
	isAdmin := actor.Role.AtLeast(domain.RoleAdmin)
	if (req.Role != nil || req.IsActive != nil) && !isAdmin {
		return nil, common.ErrRoleChangeDenied
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, common.ErrInvalidInput
		}
		user.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, common.ErrInvalidInput
		}
		if email != user.Email {
			taken, err := s.repo.EmailExists(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, common.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, common.ErrInvalidInput
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ResetPassword(ctx context.Context, actor *domain.Actor, id, newPassword string) error {
	if err := s.requireAdminOrSelf(actor, id); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return common.ErrInvalidInput
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *userService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if actor.IsSelf(id) {
		return common.ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) Stats(ctx context.Context, actor *domain.Actor) (*domain.UserStats, error) {
	if err := domain.Require(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

func (s *userService) requireAdminOrSelf(actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return err
	}
	if actor.IsSelf(id) {
		return nil
	}
	return domain.Require(actor, domain.RoleAdmin)
}

func (s *userService) find(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

// HashPassword hashes a dashboard password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), migration.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
