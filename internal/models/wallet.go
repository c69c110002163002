// Package models содержит доменные структуры кошелька: счёт и неизменяемые
// записи журнала операций, а также вспомогательные типы для приёма JSON-запросов.
package models

import "time"

// WalletAccount представляет кошелёк пользователя. Кошелёк создаётся лениво
// при первом обращении, один на пользователя, баланс не бывает отрицательным.
type WalletAccount struct {
	ID        int       `json:"id"`         // Идентификатор кошелька
	UserUID   string    `json:"user_uid"`   // Владелец кошелька
	Balance   float64   `json:"balance"`    // Текущий баланс
	Currency  string    `json:"currency"`   // Код валюты
	CreatedAt time.Time `json:"created_at"` // Дата создания
	UpdatedAt time.Time `json:"updated_at"` // Дата последнего изменения баланса
}

// WalletTransaction представляет запись журнала операций кошелька.
// Записи только добавляются, никогда не изменяются и не удаляются:
// каждое изменение баланса создаёт ровно одну такую запись в той же транзакции.
type WalletTransaction struct {
	ID        int       `json:"id"`                 // Идентификатор записи
	WalletID  int       `json:"wallet_id"`          // Кошелёк, к которому относится операция
	UserUID   string    `json:"user_uid"`           // Владелец (денормализовано для выборок)
	TxType    string    `json:"tx_type"`            // Тип операции, сейчас только "deposit"
	Amount    float64   `json:"amount"`             // Сумма операции (строго > 0)
	Status    string    `json:"status"`             // Статус операции, "completed"
	Note      string    `json:"note,omitempty"`     // Комментарий (обрезается до допустимой длины)
	Metadata  []byte    `json:"metadata,omitempty"` // Произвольные структурированные данные
	CreatedAt time.Time `json:"created_at"`         // Время операции
}

// TransactionView — запись журнала вместе с данными владельца,
// используется в административной сводке.
type TransactionView struct {
	WalletTransaction
	Email string `json:"email"` // Почта владельца кошелька
}

// DummyDeposit используется для приёма запроса на пополнение из JSON
// до валидации и передачи в бизнес-логику.
type DummyDeposit struct {
	Amount float64 `json:"amount" validate:"required,gt=0"` // Сумма пополнения (>0)
	Note   string  `json:"note,omitempty"`                  // Комментарий (опционально)
}
