package models

import "time"

// ResetToken представляет одноразовый токен восстановления пароля.
// На пользователя одновременно существует не более одного активного токена:
// выпуск нового токена удаляет предыдущий.
type ResetToken struct {
	Token     string    // Значение токена (высокоэнтропийная строка)
	UserUID   string    // Владелец токена
	ExpiresAt time.Time // Момент истечения срока действия
	CreatedAt time.Time // Дата создания
}

// Expired сообщает, истек ли срок действия токена на момент now.
func (t *ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
