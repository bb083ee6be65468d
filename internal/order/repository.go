package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	// FindCustomerByEmail returns nil, nil when no customer has that email.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	CreateCustomer(ctx context.Context, c *Customer) error
	UpdateCustomer(ctx context.Context, c *Customer) error

	CreateOrder(ctx context.Context, o *Order) error
	// CreateOrderLines inserts all lines or none.
	CreateOrderLines(ctx context.Context, orderID string, lines []Line) error
	DeleteOrder(ctx context.Context, orderID string) error

	GetByID(ctx context.Context, orderID string) (*Detail, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]Detail, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var (
		c       Customer
		address sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, phone, address FROM customers WHERE email = $1`,
		email,
	).Scan(&c.ID, &c.Email, &c.Name, &c.Phone, &address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}
	c.Address = address.String
	return &c, nil
}

func (r *repo) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, email, name, phone, address)
         VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Email, c.Name, c.Phone, c.Address,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *repo) UpdateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET name = $1, phone = $2, address = $3 WHERE id = $4`,
		c.Name, c.Phone, c.Address, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (r *repo) CreateOrder(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, customer_name, customer_phone, customer_address,
             status, subtotal, discount_amount, total, notes, delivery_address, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.CustomerID, o.CustomerName, o.CustomerPhone, o.CustomerAddress,
		string(o.Status), o.Subtotal, o.DiscountAmount, o.Total, o.Notes, o.DeliveryAddress, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repo) CreateOrderLines(ctx context.Context, orderID string, lines []Line) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.OrderID = orderID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, line_no, menu_item_id, quantity, unit_price, total_price)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, orderID, i, l.MenuItemID, l.Quantity, l.UnitPrice, l.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) DeleteOrder(ctx context.Context, orderID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

const selectDetail = `SELECT o.id, o.customer_id, o.customer_name, o.customer_phone, o.customer_address,
             o.status, o.subtotal, o.discount_amount, o.total, o.notes, o.delivery_address, o.created_at,
             c.name, c.phone, c.email
         FROM orders o LEFT JOIN customers c ON c.id = o.customer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetail(row rowScanner) (*Detail, error) {
	var (
		d                    Detail
		customerID, notes    sql.NullString
		cName, cPhone, email sql.NullString
		status               string
	)
	if err := row.Scan(
		&d.ID, &customerID, &d.CustomerName, &d.CustomerPhone, &d.CustomerAddress,
		&status, &d.Subtotal, &d.DiscountAmount, &d.Total, &notes, &d.DeliveryAddress, &d.CreatedAt,
		&cName, &cPhone, &email,
	); err != nil {
		return nil, err
	}
	d.Status = Status(status)
	d.StatusLabel = d.Status.Label()
	d.CustomerID = nullable(customerID)
	d.Notes = nullable(notes)
	if customerID.Valid {
		d.Customer = &CustomerRef{Name: cName.String, Phone: cPhone.String, Email: nullable(email)}
	}
	d.Items = []DetailLine{}
	return &d, nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Detail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, selectDetail+` WHERE o.id = $1`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if d.Items, err = r.lines(ctx, d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repo) ListByCustomerEmail(ctx context.Context, email string) ([]Detail, error) {
	rows, err := r.db.QueryContext(ctx,
		selectDetail+` WHERE c.email = $1 ORDER BY o.created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		if orders[i].Items, err = r.lines(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repo) lines(ctx context.Context, orderID string) ([]DetailLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oi.id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.total_price, m.name, m.image_url
         FROM order_items oi LEFT JOIN menu_items m ON m.id = oi.menu_item_id
         WHERE oi.order_id = $1 ORDER BY oi.line_no`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	lines := []DetailLine{}
	for rows.Next() {
		var (
			l                        DetailLine
			menuItemID, name, imgURL sql.NullString
		)
		if err := rows.Scan(&l.ID, &menuItemID, &l.Quantity, &l.UnitPrice, &l.TotalPrice, &name, &imgURL); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		l.MenuItemID = nullable(menuItemID)
		if name.Valid {
			l.MenuItem = &MenuItemRef{Name: name.String, ImageURL: imgURL.String}
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func (r *repo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`,
		string(status), orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
