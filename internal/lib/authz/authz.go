// Package authz реализует табличную проверку прав доступа по ролям.
//
// Каждая операция объявляет набор допустимых ролей. Проверка выполняется
// чистой функцией Allow до выполнения тела обработчика. Правила владения
// ресурсом (клиент действует только над своим, модератор — в пределах
// общей группы) проверяются отдельно на уровне сервисов.
package authz

import (
	"errors"
	"fmt"

	"github.com/maratbr/classifieds-board/internal/models"
)

// Operation — операция, для которой проверяются права.
type Operation string

// Операции над пользователями и объявлениями.
const (
	OpCreateUser Operation = "create user"
	OpUpdateUser Operation = "update user"
	OpDeleteUser Operation = "delete user"
	OpListUsers  Operation = "list users"

	OpCreateDraft Operation = "create draft"
	OpUpdateDraft Operation = "update draft"
	OpDeleteDraft Operation = "delete draft"

	OpCreateAdvertisement Operation = "create advertisement"
	OpUpdateAdvertisement Operation = "update advertisement"
	OpDeleteAdvertisement Operation = "delete advertisement"
)

// ErrForbidden возвращается, когда роль не входит в набор допустимых для операции.
var ErrForbidden = errors.New("operation not permitted")

// allowedRoles — таблица соответствия операции и допустимых ролей.
var allowedRoles = map[Operation][]string{
	OpCreateUser: {models.RoleAdmin},
	OpUpdateUser: {models.RoleAdmin, models.RoleModerator},
	OpDeleteUser: {models.RoleAdmin},
	OpListUsers:  {models.RoleAdmin, models.RoleModerator, models.RoleClient},

	OpCreateDraft: {models.RoleClient},
	OpUpdateDraft: {models.RoleClient},
	OpDeleteDraft: {models.RoleClient, models.RoleAdmin, models.RoleModerator},

	OpCreateAdvertisement: {models.RoleClient},
	OpUpdateAdvertisement: {models.RoleClient},
	OpDeleteAdvertisement: {models.RoleClient, models.RoleAdmin, models.RoleModerator},
}

// Allow возвращает nil, если роль допускается к операции, иначе ErrForbidden.
func Allow(role string, op Operation) error {
	roles, ok := allowedRoles[op]
	if !ok {
		return fmt.Errorf("unknown operation %q: %w", op, ErrForbidden)
	}
	for _, allowed := range roles {
		if role == allowed {
			return nil
		}
	}
	return ErrForbidden
}
