package sqlite

import (
	"context"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token_hash, user_id, status, created_at, expires_at, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, ?, CURRENT_TIMESTAMP)`,
		s.ID, s.TokenHash, s.UserID, string(s.Status), s.ExpiresAt.UTC(),
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	var (
		s      domain.Session
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, user_id, status, created_at, expires_at, updated_at
		 FROM sessions WHERE token_hash = ?`, tokenHash,
	).Scan(&s.ID, &s.TokenHash, &s.UserID, &status, &s.CreatedAt, &s.ExpiresAt, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Status = domain.SessionStatus(status)
	return s, nil
}

func (r *sessionsRepo) SetSessionStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), sessionID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND status = ?`,
		string(domain.SessionRevoked), userID, string(domain.SessionActive),
	)
	return err
}

func (r *sessionsRepo) ExpireSessionsBefore(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE status = ? AND expires_at < ?`,
		string(domain.SessionExpired), string(domain.SessionActive), now.UTC(),
	)
	return err
}

func (r *sessionsRepo) DeleteTerminalSessionsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE status != ? AND expires_at < ?`,
		string(domain.SessionActive), cutoff.UTC(),
	)
	return err
}
