package sqlite

import (
	"context"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
)

type loginSessionsRepo struct {
	q querier
}

func (r *loginSessionsRepo) CreateSession(ctx context.Context, s domain.LoginSession) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO login_sessions (id, user_id, session_token, is_confirmed, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.SessionToken, s.Confirmed, createdAt, s.ExpiresAt,
	)
	return mapConstraint(err)
}

func (r *loginSessionsRepo) GetActiveByToken(ctx context.Context, token string, now time.Time) (domain.LoginSession, error) {
	var s domain.LoginSession
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, session_token, is_confirmed, created_at, expires_at
		FROM login_sessions
		WHERE session_token = ? AND expires_at > ?`,
		token, now,
	).Scan(&s.ID, &s.UserID, &s.SessionToken, &s.Confirmed, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.LoginSession{}, mapNotFound(err)
	}
	return s, nil
}

func (r *loginSessionsRepo) ConfirmSession(ctx context.Context, token string, now time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE login_sessions SET is_confirmed = 1
		WHERE session_token = ? AND expires_at > ?`,
		token, now,
	)
	if err != nil {
		return err
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

func (r *loginSessionsRepo) DeleteActiveByToken(ctx context.Context, token string, now time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM login_sessions
		WHERE session_token = ? AND expires_at > ?`,
		token, now,
	)
	if err != nil {
		return err
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

func (r *loginSessionsRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM login_sessions WHERE id = ?`, id)
	return err
}

func (r *loginSessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM login_sessions WHERE expires_at <= ?`, now)
	return err
}
