// Package models содержит доменные структуры доски объявлений:
// пользователей, группы, токены сессий и объявления.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleClient    = "client"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int        // Уникальный идентификатор пользователя
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля пользователя
	Role         string     // Роль пользователя: admin, moderator или client
	IsActive     bool       // Признак активности, false после мягкого удаления
	CreatedAt    time.Time  // Дата создания записи
	UpdatedAt    *time.Time // Дата последнего обновления
	Groups       []Group    // Группы, в которых состоит пользователь
}

// DummyUser используется для приёма данных из JSON-запроса на создание пользователя.
type DummyUser struct {
	Email    string `json:"email" validate:"required,email"`            // Электронная почта
	Password string `json:"password" validate:"required,min=6"`         // Пароль в открытом виде
	Role     string `json:"role" validate:"required,oneof=admin moderator client"` // Роль
	Groups   []int  `json:"groups"`                                     // ID групп, обязательны для client
}

// DummyUserUpdate используется для приёма данных из JSON-запроса на обновление пользователя.
type DummyUserUpdate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin moderator client"`
	IsActive bool   `json:"is_active"`
}

// PublicUser — публичный профиль пользователя, отдаваемый в ответах API.
type PublicUser struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
	Groups   []Group `json:"groups"`
}

// Public возвращает публичное представление пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	groups := u.Groups
	if groups == nil {
		groups = []Group{}
	}
	return PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		Groups:   groups,
	}
}
