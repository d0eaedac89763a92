// Package sqlite is the local-first record store backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", core.ErrStoreFailure, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", core.ErrStoreFailure, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStoreFailure, err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: run migrations: %v", core.ErrStoreFailure, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close(context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const transactionColumns = `id, user_id, title, amount, kind, category_id,
	category_name, category_icon, description, occurred_at, created_at, updated_at`

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", core.ErrStoreFailure, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var kind string
		var occurredAt int64
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &kind,
			&tx.CategoryID, &tx.CategoryName, &tx.CategoryIcon, &tx.Description,
			&occurredAt, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", core.ErrStoreFailure, err)
		}
		tx.Kind = core.Kind(kind)
		tx.OccurredAt = time.UnixMilli(occurredAt).UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate transactions: %v", core.ErrStoreFailure, err)
	}
	return out, nil
}

func (s *Store) UpsertTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			amount = excluded.amount,
			kind = excluded.kind,
			category_id = excluded.category_id,
			category_name = excluded.category_name,
			category_icon = excluded.category_icon,
			description = excluded.description,
			occurred_at = excluded.occurred_at,
			updated_at = excluded.updated_at`,
		tx.ID, tx.UserID, tx.Title, tx.Amount, string(tx.Kind), tx.CategoryID,
		tx.CategoryName, tx.CategoryIcon, tx.Description,
		tx.OccurredAt.UnixMilli(), tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return "", fmt.Errorf("%w: upsert transaction: %v", core.ErrStoreFailure, err)
	}
	return tx.ID, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: delete transaction: %v", core.ErrStoreFailure, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ClearTransactions(ctx context.Context, userID string) error {
	// A single DELETE runs in its own implicit transaction, so the wipe
	// is all-or-nothing.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: clear transactions: %v", core.ErrStoreFailure, err)
	}
	return nil
}

const categoryColumns = `id, user_id, name, percentage, amount, spent,
	icon, color, period, is_default, created_at, updated_at`

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %v", core.ErrStoreFailure, err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", core.ErrStoreFailure, err)
	}
	return out, nil
}

func scanCategory(rows *sql.Rows) (core.Category, error) {
	var cat core.Category
	var period string
	if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Percentage,
		&cat.Amount, &cat.Spent, &cat.Icon, &cat.Color, &period,
		&cat.Default, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
		return core.Category{}, fmt.Errorf("%w: scan category: %v", core.ErrStoreFailure, err)
	}
	cat.Period = core.Period(period)
	return cat, nil
}

func (s *Store) UpsertCategory(ctx context.Context, cat core.Category) (string, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	if _, err := s.db.ExecContext(ctx, upsertCategorySQL,
		categoryArgs(cat)...); err != nil {
		return "", fmt.Errorf("%w: upsert category: %v", core.ErrStoreFailure, err)
	}
	return cat.ID, nil
}

const upsertCategorySQL = `
	INSERT INTO categories (` + categoryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		percentage = excluded.percentage,
		amount = excluded.amount,
		spent = excluded.spent,
		icon = excluded.icon,
		color = excluded.color,
		period = excluded.period,
		is_default = excluded.is_default,
		updated_at = excluded.updated_at`

func categoryArgs(cat core.Category) []any {
	return []any{cat.ID, cat.UserID, cat.Name, cat.Percentage, cat.Amount,
		cat.Spent, cat.Icon, cat.Color, string(cat.Period), cat.Default,
		cat.CreatedAt, cat.UpdatedAt}
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: delete category: %v", core.ErrStoreFailure, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ReplaceCategories swaps the whole category set inside one transaction.
func (s *Store) ReplaceCategories(ctx context.Context, userID string, cats []core.Category) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin replace categories: %v", core.ErrStoreFailure, err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("%w: clear categories: %v", core.ErrStoreFailure, err)
	}
	for _, cat := range cats {
		if cat.ID == "" {
			cat.ID = uuid.NewString()
		}
		cat.UserID = userID
		if _, err := dbTx.ExecContext(ctx, upsertCategorySQL, categoryArgs(cat)...); err != nil {
			return fmt.Errorf("%w: insert category %s: %v", core.ErrStoreFailure, cat.Name, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: commit replace categories: %v", core.ErrStoreFailure, err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var p core.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, avatar, currency, theme, notifications,
			created_at, updated_at
		FROM profiles WHERE id = ?`, userID).
		Scan(&p.ID, &p.Name, &p.Email, &p.Avatar, &p.Currency, &p.Theme,
			&p.Notifications, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("%w: get profile: %v", core.ErrStoreFailure, err)
	}
	return p, nil
}

func (s *Store) UpsertProfile(ctx context.Context, p core.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, email, avatar, currency, theme,
			notifications, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			avatar = excluded.avatar,
			currency = excluded.currency,
			theme = excluded.theme,
			notifications = excluded.notifications,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Email, p.Avatar, p.Currency, p.Theme,
		p.Notifications, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %v", core.ErrStoreFailure, err)
	}
	return nil
}
