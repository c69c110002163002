// Package repository реализует хранилище данных на основе PostgreSQL
// для кошельков, журнала операций, каталога тарифов и аренды.
// Все изменения баланса и переходы подписок выполняются внутри одной
// транзакции базы данных: никакой другой код не пишет в эти таблицы напрямую.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с кошельками, тарифами и арендой.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'wallet_accounts'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table wallet_accounts missing or query error: %w", err)
	}
	return nil
}
