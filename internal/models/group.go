package models

// Group представляет региональную группу пользователей.
// Связь с пользователями — многие-ко-многим через таблицу user_groups.
type Group struct {
	ID     int    `json:"id"`     // Уникальный идентификатор группы
	Region string `json:"region"` // Регион группы
}
