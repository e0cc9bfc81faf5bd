package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/storage"
)

type CheckoutInput struct {
	AddressID     string `json:"address_id"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type CheckoutResult struct {
	CheckoutID string              `json:"checkout_id,omitempty"`
	Order      domain.Order        `json:"order"`
	Cart       domain.CartSnapshot `json:"cart"`
}

// CheckoutFailedError reports a rejected order placement. The cart is left
// as it was; CheckoutID names the ledger entry to retry, when there is one.
type CheckoutFailedError struct {
	CheckoutID string
	Err        error
}

func (e *CheckoutFailedError) Error() string {
	return "checkout failed: " + e.Err.Error()
}

func (e *CheckoutFailedError) Unwrap() error {
	return e.Err
}

func (e *CheckoutFailedError) Retryable() bool {
	return e.CheckoutID != ""
}

type CheckoutService struct {
	orders OrderAPI
	ledger CheckoutRepository
	status OrderStatusCache
	qr     QRGenerator
	logger zerolog.Logger
	cartWriter
}

// NewCheckoutService takes an optional ledger and status cache; nil disables
// retries and live tracking respectively.
func NewCheckoutService(orders OrderAPI, ledger CheckoutRepository, status OrderStatusCache, qr QRGenerator,
	sessions *SessionManager, drafts DraftQueue, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:     orders,
		ledger:     ledger,
		status:     status,
		qr:         qr,
		logger:     logger,
		cartWriter: cartWriter{sessions: sessions, drafts: drafts},
	}
}

// Place submits the session's cart as an order. One checkout runs per session
// at a time; a second call while one is in flight gets ErrCheckoutInProgress.
func (s *CheckoutService) Place(ctx context.Context, sess *Session, in CheckoutInput) (CheckoutResult, error) {
	token, err := requireToken(sess)
	if err != nil {
		return CheckoutResult{}, err
	}
	release, err := sess.claimCheckout()
	if err != nil {
		return CheckoutResult{}, err
	}
	defer release()

	snap := sess.Cart.Snapshot()
	if snap.IsEmpty() {
		return CheckoutResult{}, domain.NewValidationError("cart", "cart is empty")
	}

	req := orderRequestFrom(snap, in)
	req.IdempotencyKey = uuid.NewString()
	checkoutID := ""
	if s.ledger != nil {
		payload, err := json.Marshal(req)
		if err != nil {
			return CheckoutResult{}, err
		}
		entry := &domain.Checkout{
			ID:        req.IdempotencyKey,
			SessionID: sess.ID,
			Payload:   payload,
			Status:    domain.CheckoutPending,
		}
		if err := s.ledger.CreateCheckout(ctx, entry); err != nil {
			return CheckoutResult{}, fmt.Errorf("record checkout: %w", err)
		}
		checkoutID = entry.ID
	}

	return s.submit(ctx, sess, token, checkoutID, req, &snap)
}

// Retry resubmits a failed checkout with its recorded payload and the same
// idempotency key. There is no automatic retry; the caller decides.
func (s *CheckoutService) Retry(ctx context.Context, sess *Session, checkoutID string) (CheckoutResult, error) {
	token, err := requireToken(sess)
	if err != nil {
		return CheckoutResult{}, err
	}
	if s.ledger == nil {
		return CheckoutResult{}, &domain.NotFoundError{Kind: "checkout", ID: checkoutID}
	}
	release, err := sess.claimCheckout()
	if err != nil {
		return CheckoutResult{}, err
	}
	defer release()

	entry, err := s.ledger.GetCheckout(ctx, checkoutID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if entry.SessionID != sess.ID {
		return CheckoutResult{}, &domain.NotFoundError{Kind: "checkout", ID: checkoutID}
	}
	switch entry.Status {
	case domain.CheckoutFailed:
	case domain.CheckoutPlaced:
		return CheckoutResult{}, domain.NewValidationError("checkout_id", "checkout was already placed")
	case domain.CheckoutPending:
		return CheckoutResult{}, domain.ErrCheckoutInProgress
	default:
		return CheckoutResult{}, domain.NewValidationError("checkout_id", "checkout cannot be retried")
	}

	var req domain.OrderRequest
	if err := json.Unmarshal(entry.Payload, &req); err != nil {
		return CheckoutResult{}, fmt.Errorf("decode checkout %s: %w", checkoutID, err)
	}
	req.IdempotencyKey = checkoutID

	// the cart may have moved on since the failed attempt
	current := sess.Cart.Snapshot()
	if !sameItems(current, req) {
		return s.submit(ctx, sess, token, checkoutID, req, nil)
	}
	return s.submit(ctx, sess, token, checkoutID, req, &current)
}

func (s *CheckoutService) Checkouts(ctx context.Context, sess *Session) ([]domain.Checkout, error) {
	if s.ledger == nil {
		return []domain.Checkout{}, nil
	}
	return s.ledger.ListCheckouts(ctx, sess.ID)
}

func (s *CheckoutService) Orders(ctx context.Context, sess *Session) ([]domain.Order, error) {
	token, err := requireToken(sess)
	if err != nil {
		return nil, err
	}
	return s.orders.ListOrders(ctx, token)
}

func (s *CheckoutService) Order(ctx context.Context, sess *Session, id string) (domain.Order, error) {
	token, err := requireToken(sess)
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.GetOrder(ctx, token, id)
}

func (s *CheckoutService) Cancel(ctx context.Context, sess *Session, id string) (domain.Order, error) {
	token, err := requireToken(sess)
	if err != nil {
		return domain.Order{}, err
	}
	return s.orders.CancelOrder(ctx, token, id)
}

// Track prefers the live status cache and falls back to the order itself.
func (s *CheckoutService) Track(ctx context.Context, sess *Session, id string) (domain.OrderStatus, error) {
	if s.status != nil {
		status, err := s.status.OrderStatus(ctx, id)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("order_id", id).Msg("order status cache unavailable")
		}
	}

	order, err := s.Order(ctx, sess, id)
	if err != nil {
		return domain.OrderStatus{}, err
	}
	return domain.OrderStatus{
		OrderID:   order.ID,
		Status:    order.Status,
		Source:    "order",
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (s *CheckoutService) QRCode(ctx context.Context, sess *Session, id string) ([]byte, error) {
	if _, err := s.Order(ctx, sess, id); err != nil {
		return nil, err
	}
	return s.qr.Generate(id)
}

// submit places req. On success the cart is cleared when basis is set and the
// cart is still at basis's version.
func (s *CheckoutService) submit(ctx context.Context, sess *Session, token, checkoutID string, req domain.OrderRequest, basis *domain.CartSnapshot) (CheckoutResult, error) {
	logger := s.logger.With().Str("session_id", sess.ID).Str("checkout_id", checkoutID).Logger()

	order, err := s.orders.CreateOrder(ctx, token, req)
	if err != nil {
		if checkoutID != "" {
			if markErr := s.ledger.MarkFailed(ctx, checkoutID, err.Error()); markErr != nil {
				logger.Error().Err(markErr).Msg("failed to mark checkout failed")
			}
		}
		logger.Warn().Err(err).Msg("order placement failed")
		return CheckoutResult{}, &CheckoutFailedError{CheckoutID: checkoutID, Err: err}
	}

	if checkoutID != "" {
		if err := s.ledger.MarkPlaced(ctx, checkoutID, order.ID); err != nil {
			logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to mark checkout placed")
		}
	}
	logger.Info().Str("order_id", order.ID).Float64("total", req.TotalAmount).Msg("order placed")

	result := CheckoutResult{CheckoutID: checkoutID, Order: order}
	if basis == nil {
		result.Cart = sess.Cart.Snapshot()
		return result, nil
	}
	snap, cleared := sess.Cart.ClearIf(basis.Version)
	if cleared {
		snap = s.commit(ctx, sess, snap)
	} else {
		logger.Info().Uint64("version", snap.Version).Msg("cart changed during checkout, keeping it")
	}
	result.Cart = snap
	return result, nil
}

func requireToken(sess *Session) (string, error) {
	token := sess.Token()
	if token == "" {
		return "", fmt.Errorf("sign in to continue: %w", domain.ErrUnauthorized)
	}
	return token, nil
}

func orderRequestFrom(snap domain.CartSnapshot, in CheckoutInput) domain.OrderRequest {
	req := domain.OrderRequest{
		RestaurantID:  snap.RestaurantID,
		TotalAmount:   snap.TotalPrice,
		CouponCode:    snap.CouponCode,
		AddressID:     in.AddressID,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}
	for _, l := range snap.Lines {
		req.Items = append(req.Items, domain.OrderItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			Price:      l.UnitPrice,
			Addons:     l.Addons,
		})
	}
	return req
}

func sameItems(snap domain.CartSnapshot, req domain.OrderRequest) bool {
	if snap.RestaurantID != req.RestaurantID || len(snap.Lines) != len(req.Items) {
		return false
	}
	for i, l := range snap.Lines {
		it := req.Items[i]
		if l.MenuItemID != it.MenuItemID || l.Quantity != it.Quantity || len(l.Addons) != len(it.Addons) {
			return false
		}
		for j := range l.Addons {
			if l.Addons[j].ID != it.Addons[j].ID {
				return false
			}
		}
	}
	return true
}
