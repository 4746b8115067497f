package models

import "time"

// Token представляет выданный пользователю токен сессии.
// Токен непрозрачный, срок действия абсолютный: после истечения
// строка остаётся в базе, но на запросы больше не действует.
type Token struct {
	ID      int       // Уникальный идентификатор записи
	Token   string    // Непрозрачная строка токена (уникальная)
	Expires time.Time // Момент истечения срока действия
	UserID  int       // Владелец токена
}
