package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/track-auth/internal/models"
)

// ReplaceResetToken сохраняет новый токен восстановления для пользователя,
// предварительно удаляя прежний. Удаление и вставка выполняются в одной
// транзакции: при конкурентных запросах на восстановление у пользователя
// остаётся ровно один активный токен.
func (s *Storage) ReplaceResetToken(ctx context.Context, userUID, token string, expiresAt time.Time) error {
	const op = "storage.ReplaceResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (token, user_uid, expires_at)
		 VALUES ($1, $2, $3)`, token, userUID, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetResetToken возвращает токен восстановления по его значению
// или ErrTokenNotFound.
func (s *Storage) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	const op = "storage.GetResetToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, user_uid, expires_at, created_at
			  FROM password_reset_tokens
			  WHERE token = $1`
	t := &models.ResetToken{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&t.Token, &t.UserUID, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DeleteResetToken удаляет токен восстановления по его значению.
// Используется для ленивой очистки истекших токенов.
func (s *Storage) DeleteResetToken(ctx context.Context, token string) error {
	const op = "storage.DeleteResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeResetToken в одной транзакции заменяет хэш пароля пользователя
// и удаляет использованный токен. Одноразовость токена гарантируется тем,
// что удаление и смена пароля фиксируются атомарно.
func (s *Storage) ConsumeResetToken(ctx context.Context, token, userUID, passwordHash string) error {
	const op = "storage.ConsumeResetToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE uid = $2`, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}

	res, err = tx.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		// Токен уже израсходован конкурентным запросом.
		return fmt.Errorf("%s: %w", op, ErrTokenNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
