package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dukerupert/rsvp/internal/apperr"
	"github.com/dukerupert/rsvp/internal/model"
)

type HostStore struct {
	db *sql.DB
}

func NewHostStore(db *sql.DB) *HostStore {
	return &HostStore{db: db}
}

func scanHost(scanner interface{ Scan(...any) error }) (*model.Host, error) {
	var h model.Host
	var tokenUsed, sent int
	var sentAt, usedAt sql.NullTime

	err := scanner.Scan(
		&h.ID, &h.Email, &h.Token, &tokenUsed, &sent, &sentAt, &usedAt, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	h.TokenUsed = tokenUsed != 0
	h.SentViaEtsy = sent != 0
	if sentAt.Valid {
		h.SentAt = &sentAt.Time
	}
	if usedAt.Valid {
		h.UsedAt = &usedAt.Time
	}
	return &h, nil
}

const hostCols = `id, email, token, token_used, sent_via_etsy, sent_at, used_at, created_at`

// Create stores an unused token for email. A second token for the same
// email fails with apperr.ErrDuplicateToken.
func (s *HostStore) Create(ctx context.Context, email, token string) (*model.Host, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO hosts (email, token) VALUES (?, ?)`,
		email, token,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrDuplicateToken
		}
		return nil, fmt.Errorf("insert host: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *HostStore) GetByID(ctx context.Context, id int64) (*model.Host, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+hostCols+` FROM hosts WHERE id = ?`, id)
	h, err := scanHost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get host: %w", err)
	}
	return h, nil
}

func (s *HostStore) GetByEmail(ctx context.Context, email string) (*model.Host, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+hostCols+` FROM hosts WHERE email = ?`, email)
	h, err := scanHost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get host by email: %w", err)
	}
	return h, nil
}

// List returns every host credential, newest first.
func (s *HostStore) List(ctx context.Context) ([]model.Host, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+hostCols+` FROM hosts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []model.Host
	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, *h)
	}
	return hosts, rows.Err()
}

// Redeem flips token_used for the matching unused token. It reports false
// when nothing matched, which covers a wrong token and a lost race alike.
func (s *HostStore) Redeem(ctx context.Context, email, token string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE hosts SET token_used = 1, used_at = datetime('now') WHERE email = ? AND token = ? AND token_used = 0`,
		email, token,
	)
	if err != nil {
		return false, fmt.Errorf("redeem host token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

// MarkSent records that the token was delivered to the host.
func (s *HostStore) MarkSent(ctx context.Context, id int64) (*model.Host, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE hosts SET sent_via_etsy = 1, sent_at = datetime('now') WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark host sent: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
