package storage

import (
	"context"
	"database/sql"
	"errors"

	"zestify-storefront/storefront-svc/internal/domain"
)

const checkoutSchema = `
	CREATE TABLE IF NOT EXISTS checkouts (
		id             UUID PRIMARY KEY,
		session_id     TEXT NOT NULL,
		payload        JSONB NOT NULL,
		status         TEXT NOT NULL,
		order_id       TEXT NOT NULL DEFAULT '',
		failure_reason TEXT NOT NULL DEFAULT '',
		attempts       INT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS checkouts_session_idx ON checkouts (session_id, created_at DESC);
`

// CheckoutRepository is the ledger of checkout attempts. A row is written
// before the order is sent so a failed attempt can be retried with the same
// payload.
type CheckoutRepository struct {
	DB *sql.DB
}

func NewCheckoutRepository(db *sql.DB) *CheckoutRepository {
	return &CheckoutRepository{DB: db}
}

func (r *CheckoutRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, checkoutSchema)
	return err
}

func (r *CheckoutRepository) CreateCheckout(ctx context.Context, c *domain.Checkout) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO checkouts (id, session_id, payload, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, c.ID, c.SessionID, string(c.Payload), c.Status).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CheckoutRepository) MarkPlaced(ctx context.Context, id, orderID string) error {
	return r.exec(ctx, id, `
		UPDATE checkouts
		SET status = $2, order_id = $3, failure_reason = '', attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`, id, domain.CheckoutPlaced, orderID)
}

func (r *CheckoutRepository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.exec(ctx, id, `
		UPDATE checkouts
		SET status = $2, failure_reason = $3, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`, id, domain.CheckoutFailed, reason)
}

func (r *CheckoutRepository) GetCheckout(ctx context.Context, id string) (domain.Checkout, error) {
	var c domain.Checkout
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, session_id, payload, status, order_id, failure_reason, attempts, created_at, updated_at
		FROM checkouts
		WHERE id = $1
	`, id).Scan(&c.ID, &c.SessionID, &c.Payload, &c.Status, &c.OrderID, &c.FailureReason, &c.Attempts, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Checkout{}, &domain.NotFoundError{Kind: "checkout", ID: id}
	}
	return c, err
}

func (r *CheckoutRepository) ListCheckouts(ctx context.Context, sessionID string) ([]domain.Checkout, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, session_id, status, order_id, failure_reason, attempts, created_at, updated_at
		FROM checkouts
		WHERE session_id = $1
		ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkouts := []domain.Checkout{}
	for rows.Next() {
		var c domain.Checkout
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Status, &c.OrderID, &c.FailureReason, &c.Attempts, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		checkouts = append(checkouts, c)
	}
	return checkouts, rows.Err()
}

func (r *CheckoutRepository) exec(ctx context.Context, id, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &domain.NotFoundError{Kind: "checkout", ID: id}
	}
	return nil
}
