// Package jwt реализует выпуск и проверку bearer-токенов в формате JWT.
//
// Токен подписывается секретным ключом (HS256) и кодирует идентичность
// пользователя (email, роль, uid) вместе со временем выпуска и истечения.
// Валидность определяется только подписью и сроком действия, без обращения
// к хранилищу.
package jwt

import (
	"time"
)

// Maker описывает интерфейс выпуска и разбора bearer-токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанными email, role и uid.
	GenerateToken(email, role, userUID string) (string, error)
	// ParseToken проверяет подпись и срок действия токена и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
