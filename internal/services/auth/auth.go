// Package services содержит логику бизнес-уровня для аутентификации пользователей
// и работы с токенами сессий.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/maratbr/classifieds-board/internal/lib/password"
	"github.com/maratbr/classifieds-board/internal/models"
)

// ErrInvalidCredentials возвращается при неизвестном email или неверном пароле.
// Наружу уходит одним сообщением, чтобы не раскрывать, какая часть неверна.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// AuthRepository описывает контракт хранилища для аутентификации.
type AuthRepository interface {
	// GetUserByEmail возвращает пользователя по email или ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateToken сохраняет новый токен сессии и возвращает его ID.
	CreateToken(ctx context.Context, token models.Token) (int, error)
	// GetUserByToken возвращает владельца неистёкшего токена или ErrNotFound.
	GetUserByToken(ctx context.Context, token string, now time.Time) (*models.User, error)
}

// AuthService отвечает за выдачу токенов сессий и разрешение токена в пользователя.
type AuthService struct {
	repo     AuthRepository
	tokenTTL time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
// tokenTTL — абсолютный срок действия выдаваемых токенов.
func NewAuthService(repo AuthRepository, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		repo:     repo,
		tokenTTL: tokenTTL,
	}
}

// Login проверяет учётные данные и выдаёт новый непрозрачный токен сессии.
// Ранее выданные токены не отзываются и действуют до собственного истечения.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.Token, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token := models.Token{
		Token:   uuid.NewString(),
		Expires: time.Now().UTC().Add(s.tokenTTL),
		UserID:  user.ID,
	}
	if token.ID, err = s.repo.CreateToken(ctx, token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Authenticate разрешает токен в пользователя. Срок действия абсолютный,
// скользящего продления нет: проверяется только expires > now.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return s.repo.GetUserByToken(ctx, token, time.Now().UTC())
}
