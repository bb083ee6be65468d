package coupon

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Repository interface {
	// Load returns nil, nil when no coupon is applied.
	Load(ctx context.Context, sessionID string) (*Applied, error)
	Save(ctx context.Context, sessionID string, a *Applied) error
	Delete(ctx context.Context, sessionID string) error
}

type repo struct {
	db *sql.DB
}

// NewRepository stores the applied promotion as a JSON snapshot so later
// catalog edits do not change a coupon the customer already saw.
func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Load(ctx context.Context, sessionID string) (*Applied, error) {
	var (
		raw []byte
		a   Applied
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT promotion, discount_amount FROM cart_coupons WHERE session_id = $1`,
		sessionID,
	).Scan(&raw, &a.DiscountAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart_coupon: %w", err)
	}
	if err := json.Unmarshal(raw, &a.Promotion); err != nil {
		return nil, fmt.Errorf("decode promotion: %w", err)
	}
	return &a, nil
}

func (r *repo) Save(ctx context.Context, sessionID string, a *Applied) error {
	raw, err := json.Marshal(a.Promotion)
	if err != nil {
		return fmt.Errorf("encode promotion: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cart_coupons (session_id, promotion, discount_amount, applied_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id)
		DO UPDATE SET promotion = EXCLUDED.promotion,
			discount_amount = EXCLUDED.discount_amount,
			applied_at = EXCLUDED.applied_at
	`, sessionID, raw, a.DiscountAmount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert cart_coupon: %w", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_coupons WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete cart_coupon: %w", err)
	}
	return nil
}
