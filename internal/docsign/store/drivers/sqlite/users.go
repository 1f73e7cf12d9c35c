package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
)

type usersRepo struct {
	q querier
}

const userColumns = `id, email, phone, name, password_hash, telegram_id, is_admin, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var telegramID sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.Name, &u.PasswordHash,
		&telegramID, &u.Admin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TelegramID = mapNullStringPtr(telegramID)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByTelegramID(ctx context.Context, telegramID string) (domain.User, error) {
	return r.scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, phone, name, password_hash, telegram_id, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Phone, u.Name, u.PasswordHash,
		mapOptionalString(u.TelegramID), u.Admin, createdAt, createdAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) BindTelegramID(ctx context.Context, userID, telegramID string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET telegram_id = ?, updated_at = ?
		WHERE id = ? AND telegram_id IS NULL`,
		telegramID, time.Now().UTC(), userID,
	)
	if err != nil {
		// Unique index violation: this Telegram identity backs another account.
		return mapConstraint(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id IN (`+placeholders+`)`,
		args...,
	).Scan(&count)
	return count, err
}
