// Package catalog reads categories, menu items and promotions.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/coupon"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository interface {
	Categories(ctx context.Context) ([]Category, error)
	MenuItems(ctx context.Context) ([]MenuItem, error)
	MenuItem(ctx context.Context, id string) (MenuItem, error)
	ActivePromotions(ctx context.Context, now time.Time) ([]coupon.Promotion, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Categories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), sort_order, is_active
		FROM categories
		WHERE is_active
		ORDER BY sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

const selectMenuItem = `
		SELECT m.id, m.name, COALESCE(m.description, ''), m.price, COALESCE(m.image_url, ''),
			m.category_id, COALESCE(c.name, ''), m.is_available, m.created_at
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.ImageURL,
		&m.CategoryID, &m.CategoryName, &m.IsAvailable, &m.CreatedAt)
	return m, err
}

// MenuItems returns available items, newest first.
func (r *PostgresRepository) MenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := r.pool.Query(ctx, selectMenuItem+`
		WHERE m.is_available
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select menu_items: %w", err)
	}
	defer rows.Close()

	out := []MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu_item: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MenuItem(ctx context.Context, id string) (MenuItem, error) {
	m, err := scanMenuItem(r.pool.QueryRow(ctx, selectMenuItem+`
		WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MenuItem{}, ErrNotFound
		}
		return MenuItem{}, fmt.Errorf("select menu_item: %w", err)
	}
	return m, nil
}

// ActivePromotions returns active, unexpired promotions in creation order,
// which is the order coupon codes are matched in.
func (r *PostgresRepository) ActivePromotions(ctx context.Context, now time.Time) ([]coupon.Promotion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), type, value, COALESCE(code, ''),
			min_order_amount, is_active, valid_until
		FROM promotions
		WHERE is_active AND (valid_until IS NULL OR valid_until > $1)
		ORDER BY created_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("select promotions: %w", err)
	}
	defer rows.Close()

	out := []coupon.Promotion{}
	for rows.Next() {
		var (
			p    coupon.Promotion
			kind string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &kind, &p.Value, &p.Code,
			&p.MinOrderAmount, &p.IsActive, &p.ValidUntil); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		p.Kind = coupon.Kind(kind)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
