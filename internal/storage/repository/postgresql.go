// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей и токенов восстановления пароля. Уникальность email
// и правило "не более одного активного токена на пользователя" обеспечиваются
// ограничениями на уровне базы, а не проверками в коде.
package repository

import (
	"context"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"
)

// Ошибки хранилища. Отсутствие записи и нарушение уникальности email
// возвращаются отдельными ошибками, чтобы сервисный слой мог отличить их
// от инфраструктурных сбоев.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenNotFound = errors.New("reset token not found")
	ErrEmailTaken    = errors.New("email already taken")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями и токенами восстановления.
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
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
