package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkurganov/localvault/internal/common"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, accountID string) (*Record, error) {
	rec := &Record{AccountID: accountID}
	err := r.db.QueryRowContext(ctx,
		`SELECT salt, verifier, scheme FROM credentials WHERE account_id = ?`, accountID).
		Scan(&rec.Salt, &rec.Verifier, &rec.Scheme)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials for %s: %w", accountID, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (account_id, salt, verifier, scheme) VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			salt = excluded.salt,
			verifier = excluded.verifier,
			scheme = excluded.scheme
	`, rec.AccountID, rec.Salt, rec.Verifier, rec.Scheme)
	if err != nil {
		return fmt.Errorf("failed to put credentials for %s: %w", rec.AccountID, err)
	}
	return nil
}
