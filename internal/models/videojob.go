// Package models содержит доменную модель видеозадания — учитываемого
// ресурса, на который действует квота тарифа.
package models

import "time"

// VideoJob представляет задание на генерацию промо-видео для товара.
// Сама генерация и загрузка на витрину симулируются внешним коллаборатором,
// здесь хранится только учётная запись задания.
type VideoJob struct {
	ID          int       `json:"id"`           // Идентификатор задания
	UserUID     string    `json:"user_uid"`     // Владелец задания
	Title       string    `json:"title"`        // Название ролика
	ProductURL  string    `json:"product_url"`  // Ссылка на товар из фида
	ShowcaseID  string    `json:"showcase_id"`  // Непрозрачный идентификатор публикации
	ShowcaseURL string    `json:"showcase_url"` // Ссылка на публикацию на витрине
	CreatedAt   time.Time `json:"created_at"`   // Время создания
}

// DummyVideoJob используется для приёма запроса на создание видеозадания
// из JSON до валидации и передачи в бизнес-логику.
type DummyVideoJob struct {
	Title      string `json:"title" validate:"required,max=200"`     // Название ролика
	ProductURL string `json:"product_url" validate:"required,max=500"` // Ссылка на товар
}
