package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	// Load returns nil, nil when the session has no cart yet.
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Load(ctx context.Context, sessionID string) (*Cart, error) {
	c := Cart{SessionID: sessionID, Lines: []Line{}}
	err := r.db.QueryRowContext(ctx,
		`SELECT updated_at FROM carts WHERE session_id = $1`, sessionID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, name, unit_price, quantity, category, image_ref
         FROM cart_items WHERE session_id = $1 ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ItemID, &l.Name, &l.UnitPrice, &l.Quantity, &l.Category, &l.ImageRef); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &c, nil
}

// Save replaces the stored lines with the cart's current lines.
func (r *repo) Save(ctx context.Context, c *Cart) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const upsertCartSQL = `
INSERT INTO carts (session_id, updated_at)
VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE
SET updated_at = EXCLUDED.updated_at
`
	if _, err = tx.ExecContext(ctx, upsertCartSQL, c.SessionID, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = $1`, c.SessionID); err != nil {
		return fmt.Errorf("delete cart_items: %w", err)
	}

	for i, l := range c.Lines {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO cart_items (session_id, item_id, name, unit_price, quantity, category, image_ref, position)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.SessionID, l.ItemID, l.Name, l.UnitPrice, l.Quantity, l.Category, l.ImageRef, i,
		); err != nil {
			return fmt.Errorf("insert cart_item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
