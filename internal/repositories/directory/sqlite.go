package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkurganov/localvault/internal/common"
	"github.com/dkurganov/localvault/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) ListProfiles(ctx context.Context) ([]ProfileEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, account_id FROM profiles ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	result := make([]ProfileEntry, 0)
	for rows.Next() {
		var e ProfileEntry
		if err := rows.Scan(&e.Name, &e.AccountID); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Reserve(ctx context.Context, name, accountID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE name = ?`, name).Scan(&exists)
		if err == nil {
			return common.ErrProfileExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check profile name: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (name, account_id) VALUES (?, ?)`, name, accountID); err != nil {
			return fmt.Errorf("failed to reserve profile name: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (account_id, profile_name) VALUES (?, ?)`, accountID, name); err != nil {
			return fmt.Errorf("failed to write account record: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Release(ctx context.Context, name, accountID string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM profiles WHERE name = ? AND account_id = ?`, name, accountID); err != nil {
			return fmt.Errorf("failed to release profile name: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM accounts WHERE account_id = ?`, accountID); err != nil {
			return fmt.Errorf("failed to delete account record: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	a := &Account{AccountID: accountID}
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_name FROM accounts WHERE account_id = ?`, accountID).Scan(&a.ProfileName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return a, nil
}
