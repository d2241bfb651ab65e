package blobs

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
		`SELECT ciphertext, nonce FROM vault_blobs WHERE account_id = ?`, accountID).
		Scan(&rec.Ciphertext, &rec.Nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blob for %s: %w", accountID, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vault_blobs (account_id, ciphertext, nonce) VALUES (?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			ciphertext = excluded.ciphertext,
			nonce = excluded.nonce
	`, rec.AccountID, rec.Ciphertext, rec.Nonce)
	if err != nil {
		return fmt.Errorf("failed to put blob for %s: %w", rec.AccountID, err)
	}
	return nil
}
