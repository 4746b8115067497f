// Package services содержит бизнес-логику управления пользователями:
// создание, обновление, мягкое удаление и ролезависимые списки.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maratbr/classifieds-board/internal/lib/authz"
	"github.com/maratbr/classifieds-board/internal/lib/password"
	"github.com/maratbr/classifieds-board/internal/models"
	"github.com/maratbr/classifieds-board/internal/storage/repository"
)

// ErrClientNeedsGroup возвращается при создании пользователя с ролью client
// без единой группы.
var ErrClientNeedsGroup = errors.New("client user must belong to at least one group")

// UserRepository описывает контракт хранилища для работы с пользователями.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User, groupIDs []int) (int, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, userID int, user models.User) (int, error)
	DeactivateUser(ctx context.Context, userID int) (int, error)
	ListActiveUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListUsersSharingGroup(ctx context.Context, userID, limit, offset int) ([]*models.User, error)
}

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Create создает пользователя. Доступно только администратору.
// Пользователь с ролью client обязан состоять хотя бы в одной группе.
func (s *UserService) Create(ctx context.Context, caller *models.User, req models.DummyUser) (*models.User, error) {
	if err := authz.Allow(caller.Role, authz.OpCreateUser); err != nil {
		return nil, err
	}
	if req.Role == models.RoleClient && len(req.Groups) == 0 {
		return nil, ErrClientNeedsGroup
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}
	newID, err := s.repo.CreateUser(ctx, models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		IsActive:     true,
	}, req.Groups)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new user", slog.Int("id", newID), slog.String("role", req.Role))

	return s.repo.GetUser(ctx, newID)
}

// Update перезаписывает email, пароль, роль и признак активности пользователя.
// Доступно администратору и модератору.
func (s *UserService) Update(ctx context.Context, caller *models.User, userID int, req models.DummyUserUpdate) (*models.User, error) {
	if err := authz.Allow(caller.Role, authz.OpUpdateUser); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	if byEmail, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		if byEmail.ID != userID {
			return nil, repository.ErrEmailTaken
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.UpdateUser(ctx, userID, models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, repository.ErrNotFound
	}
	s.log.Info("updated user", slog.Int("id", userID))

	return s.repo.GetUser(ctx, userID)
}

// Delete выполняет мягкое удаление пользователя: сбрасывает is_active.
// Доступно только администратору. Повторное удаление возвращает ErrNotFound.
func (s *UserService) Delete(ctx context.Context, caller *models.User, userID int) (*models.User, error) {
	if err := authz.Allow(caller.Role, authz.OpDeleteUser); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, repository.ErrNotFound
	}

	rows, err := s.repo.DeactivateUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, repository.ErrNotFound
	}
	s.log.Info("deactivated user", slog.Int("id", userID))

	return s.repo.GetUser(ctx, userID)
}

// List возвращает список пользователей в зависимости от роли вызывающего:
// администратор видит всех активных, модератор — активных из общих групп,
// клиент — только себя, единственным элементом списка.
func (s *UserService) List(ctx context.Context, caller *models.User, limit, offset int) ([]*models.User, error) {
	if err := authz.Allow(caller.Role, authz.OpListUsers); err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleAdmin:
		return s.repo.ListActiveUsers(ctx, limit, offset)
	case models.RoleModerator:
		return s.repo.ListUsersSharingGroup(ctx, caller.ID, limit, offset)
	default:
		self, err := s.repo.GetUser(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		return []*models.User{self}, nil
	}
}

// Get возвращает пользователя по ID. Доступно любому аутентифицированному.
func (s *UserService) Get(ctx context.Context, userID int) (*models.User, error) {
	const op = "services.user.Get"
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
