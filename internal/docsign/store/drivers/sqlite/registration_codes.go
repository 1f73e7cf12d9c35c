package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
)

type registrationCodesRepo struct {
	q querier
}

func (r *registrationCodesRepo) CreateCode(ctx context.Context, c domain.RegistrationCode) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO registration_codes (id, email, code, used, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Email, mapStringNull(c.Code), c.Used, c.ExpiresAt, createdAt,
	)
	return mapConstraint(err)
}

func (r *registrationCodesRepo) DeleteCodesForEmail(ctx context.Context, email string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM registration_codes WHERE email = ?`, email)
	return err
}

func (r *registrationCodesRepo) GetActiveByCode(ctx context.Context, code string, now time.Time) (domain.RegistrationCode, error) {
	var c domain.RegistrationCode
	var codeVal sql.NullString
	err := r.q.QueryRowContext(ctx, `
		SELECT id, email, code, used, expires_at, created_at
		FROM registration_codes
		WHERE code = ? AND used = 0 AND expires_at > ?`,
		code, now,
	).Scan(&c.ID, &c.Email, &codeVal, &c.Used, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		return domain.RegistrationCode{}, mapNotFound(err)
	}
	c.Code = mapNullString(codeVal)
	return c, nil
}

func (r *registrationCodesRepo) ConsumeCode(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE registration_codes SET used = 1, code = NULL WHERE id = ?`, id)
	return err
}

func (r *registrationCodesRepo) DeleteExpiredCodes(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM registration_codes WHERE expires_at <= ? OR used = 1`, now)
	return err
}
