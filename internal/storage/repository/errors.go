package repository

import "errors"

// Ошибки уровня хранилища. Сервисы транслируют их в HTTP-статусы:
// ErrNotFound — 404, ErrEmailTaken — 400.
var (
	// ErrNotFound возвращается, когда запись отсутствует либо скрыта от вызывающего.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken возвращается при попытке занять уже зарегистрированный email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrGroupNotFound возвращается, когда указанная группа не существует.
	ErrGroupNotFound = errors.New("group not found")
)
