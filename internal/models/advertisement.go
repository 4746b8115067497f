package models

import "time"

// Состояния объявления. Других состояний не существует, переходы между
// ними выполняются только явным обновлением через соответствующую ручку.
const (
	StateActive = "active"
	StateDraft  = "draft"
)

// Advertisement представляет объявление или его черновик.
// Черновик отличается от активного объявления только полем State.
type Advertisement struct {
	ID        int        `json:"id"`         // Уникальный идентификатор объявления
	Title     *string    `json:"title"`      // Заголовок, может отсутствовать
	Body      string     `json:"body"`       // Текст объявления
	OwnerID   int        `json:"owner_id"`   // Владелец объявления
	State     string     `json:"state"`      // Состояние: active или draft
	CreatedAt time.Time  `json:"created_at"` // Дата создания
	UpdatedAt *time.Time `json:"updated_at"` // Дата последнего обновления
}

// DummyAdvertisement используется для приёма данных из JSON-запроса
// на создание или обновление объявления.
type DummyAdvertisement struct {
	Title *string `json:"title"`                    // Заголовок (опционально)
	Body  string  `json:"body" validate:"required"` // Текст объявления
}

// FeedItem — элемент публичной ленты: объявление вместе
// с публичным профилем владельца.
type FeedItem struct {
	Advertisement Advertisement `json:"advertisement"`
	Owner         PublicUser    `json:"owner"`
}
