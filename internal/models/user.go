// Package models содержит доменные структуры сервиса аутентификации:
// пользователь, токен восстановления пароля и сообщения для очереди уведомлений.
package models

import "time"

// Роли пользователя. Набор расширяемый, по умолчанию при регистрации
// присваивается RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Отображаемое имя
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	Enabled      bool      // Признак активности учетной записи
	CreatedAt    time.Time // Дата создания
}

// UserView — публичное представление пользователя для ответов API.
// Никогда не содержит хэш пароля.
type UserView struct {
	UID   string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// View возвращает публичное представление пользователя.
func (u *User) View() UserView {
	return UserView{
		UID:   u.UID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
