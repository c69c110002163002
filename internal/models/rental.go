// Package models содержит доменные структуры каталога тарифов и аренды:
// тарифный план, экземпляр подписки пользователя и типы для JSON-запросов.
package models

import "time"

// RentalPlan представляет тариф из каталога. Каталог — справочные данные,
// засеваются миграцией и меняются только руками администратора.
type RentalPlan struct {
	ID           int     `json:"id"`             // Идентификатор тарифа
	Code         string  `json:"code"`           // Уникальный код тарифа
	Name         string  `json:"name"`           // Человекочитаемое название
	MonthlyPrice float64 `json:"monthly_price"`  // Цена за месяц
	MaxVideoJobs int     `json:"max_video_jobs"` // Квота видеозаданий
	Perks        string  `json:"perks"`          // Описание преимуществ
	Active       bool    `json:"active"`         // Доступен ли тариф для подписки
}

// UserRental представляет аренду тарифа пользователем.
// У пользователя не более одной активной аренды: новая подписка
// атомарно переводит предыдущую в статус expired.
type UserRental struct {
	ID         int       `json:"id"`          // Идентификатор аренды
	UserUID    string    `json:"user_uid"`    // Пользователь
	PlanID     int       `json:"plan_id"`     // Арендованный тариф
	Months     int       `json:"months"`      // Срок аренды в месяцах (1..24)
	TotalPrice float64   `json:"total_price"` // Полная цена, фиксируется при подписке
	Status     string    `json:"status"`      // active или expired
	StartsAt   time.Time `json:"starts_at"`   // Начало аренды
	EndsAt     time.Time `json:"ends_at"`     // Конец аренды (starts_at + months)
}

// RentalInfo — активная аренда вместе с полями тарифа,
// нужными для проверки квоты и отображения.
type RentalInfo struct {
	UserRental
	PlanCode     string  `json:"plan_code"`      // Код тарифа
	PlanName     string  `json:"plan_name"`      // Название тарифа
	MonthlyPrice float64 `json:"monthly_price"`  // Цена тарифа за месяц
	MaxVideoJobs int     `json:"max_video_jobs"` // Квота видеозаданий тарифа
}

// DummySubscribe используется для приёма запроса на подписку из JSON
// до валидации и передачи в бизнес-логику.
type DummySubscribe struct {
	PlanCode string `json:"plan_code" validate:"required,alphanum"`   // Код тарифа
	Months   int    `json:"months,omitempty" validate:"omitempty,gte=1,lte=24"` // Срок в месяцах, по умолчанию 1
}
