// Package models содержит доменную модель пользователя витринного сервиса.
// Пользователь создаётся внешним сервисом регистрации; здесь хранится
// только то, что нужно кошельку и аренде тарифов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID       string    // Уникальный идентификатор пользователя
	Email     string    // Электронная почта (уникальна без учёта регистра)
	Role      string    // Роль пользователя, admin или user
	Plan      string    // Денормализованный код текущего тарифа, по умолчанию "free"
	CreatedAt time.Time // Дата создания учётной записи
}
