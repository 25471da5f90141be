package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pasargo/internal/cart"
	"pasargo/internal/logger"
	"pasargo/internal/pricing"
	"pasargo/internal/session"

	"go.uber.org/zap"
)

// StoreAPI is the slice of the remote store this service drives. The
// concrete implementation lives in internal/storeapi.
type StoreAPI interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	OrdersByUser(ctx context.Context, userID string) ([]*Order, error)
	OrdersByShop(ctx context.Context, shopID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error)
	Cancel(ctx context.Context, orderID, reason string) (*Order, error)
	CheckPurchase(ctx context.Context, userID, shopID string) (bool, error)
}

// Service converts carts into persisted orders and mirrors the store's
// order lists for one actor. It is an explicit state container: reads
// refresh the cached lists, mutations go straight to the store, and a
// user-facing error slot latches the last failure for the UI.
type Service struct {
	api  StoreAPI
	sess *session.Session
	cart *cart.Store

	mu         sync.Mutex
	userOrders []*Order
	shopOrders []*Order
	lastError  string
}

func NewService(api StoreAPI, sess *session.Session, cartStore *cart.Store) *Service {
	return &Service{api: api, sess: sess, cart: cartStore}
}

// CreateOrder submits the current cart as a new order for the given shop.
// Preconditions fail before any network call; the cart is cleared only
// after the store confirms the order.
func (s *Service) CreateOrder(ctx context.Context, shopID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("shop_id", shopID))

	if !s.sess.Authenticated() {
		s.latch("you must be signed in to order")
		return nil, ErrNotAuthenticated
	}

	checkout := s.cart.Snapshot()
	if checkout.Empty() {
		s.latch("your cart is empty")
		return nil, ErrCartEmpty
	}

	var address *string
	if checkout.DeliveryType == cart.DeliveryDelivery {
		trimmed := strings.TrimSpace(checkout.DeliveryAddress)
		if trimmed == "" {
			s.latch("a delivery address is required")
			return nil, ErrMissingAddress
		}
		address = &trimmed
	}
	// Pickup always sends a null address, even when a stale one is set.

	req := CreateOrderRequest{
		UserID:          s.sess.UserID,
		ShopID:          shopID,
		Products:        buildProductLines(checkout.Products),
		Packages:        buildPackageLines(checkout.Packages),
		DeliveryType:    string(checkout.DeliveryType),
		DeliveryAddress: address,
		OrderNotes:      checkout.OrderNotes,
	}

	created, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		log.Error("create order failed", zap.Error(err))
		s.latch(userMessage(err))
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.cart.Clear()
	s.clearError()

	s.mu.Lock()
	s.userOrders = append([]*Order{created}, s.userOrders...)
	s.mu.Unlock()

	log.Info("order created",
		zap.String("order_id", created.ID),
		zap.Float64("total", created.Total()),
	)

	return created, nil
}

// FetchUserOrders refreshes the customer's order list. On any failure the
// list resets to empty rather than staying stale; the error is logged, not
// surfaced, matching best-effort refresh semantics.
func (s *Service) FetchUserOrders(ctx context.Context) []*Order {
	orders, err := s.api.OrdersByUser(ctx, s.sess.UserID)
	if err != nil {
		logger.FromCtx(ctx).Warn("fetch user orders failed", zap.Error(err))
		orders = nil
	}
	sortNewestFirst(orders)

	s.mu.Lock()
	s.userOrders = orders
	s.mu.Unlock()

	return orders
}

// FetchShopOrders refreshes a shop's order list with the same best-effort
// semantics as FetchUserOrders.
func (s *Service) FetchShopOrders(ctx context.Context, shopID string) []*Order {
	orders, err := s.api.OrdersByShop(ctx, shopID)
	if err != nil {
		logger.FromCtx(ctx).Warn("fetch shop orders failed",
			zap.String("shop_id", shopID),
			zap.Error(err),
		)
		orders = nil
	}
	sortNewestFirst(orders)

	s.mu.Lock()
	s.shopOrders = orders
	s.mu.Unlock()

	return orders
}

// UpdateOrderStatus requests a forward transition. When the order is in a
// cached list the transition table is checked locally first, so invalid
// targets never reach the wire; otherwise the store remains the enforcer.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, next Status) error {
	if !next.Valid() {
		s.latch("unknown order status")
		return ErrInvalidStatus
	}

	if cached := s.lookup(orderID); cached != nil && !cached.Status.CanTransitionTo(next) {
		s.latch(fmt.Sprintf("cannot move order from %s to %s", cached.Status, next))
		return ErrInvalidTransition
	}

	updated, err := s.api.UpdateStatus(ctx, orderID, next)
	if err != nil {
		logger.FromCtx(ctx).Error("update order status failed",
			zap.String("order_id", orderID),
			zap.String("status", string(next)),
			zap.Error(err),
		)
		s.latch(userMessage(err))
		return fmt.Errorf("update order status: %w", err)
	}

	s.replace(updated)
	s.clearError()
	return nil
}

// CancelOrder requests the cancelled status with an optional reason.
func (s *Service) CancelOrder(ctx context.Context, orderID, reason string) error {
	if cached := s.lookup(orderID); cached != nil && cached.Status.Terminal() {
		s.latch("this order can no longer be cancelled")
		return ErrInvalidTransition
	}

	updated, err := s.api.Cancel(ctx, orderID, reason)
	if err != nil {
		logger.FromCtx(ctx).Error("cancel order failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		s.latch(userMessage(err))
		return fmt.Errorf("cancel order: %w", err)
	}

	s.replace(updated)
	s.clearError()
	return nil
}

// HasPurchased reports whether the current user has bought from the shop.
// Used by the review-eligibility flow.
func (s *Service) HasPurchased(ctx context.Context, shopID string) (bool, error) {
	if !s.sess.Authenticated() {
		return false, ErrNotAuthenticated
	}
	return s.api.CheckPurchase(ctx, s.sess.UserID, shopID)
}

// UserOrders returns the cached customer list.
func (s *Service) UserOrders() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Order(nil), s.userOrders...)
}

// ShopOrders returns the cached shop list.
func (s *Service) ShopOrders() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Order(nil), s.shopOrders...)
}

// LastError is the user-facing error slot; empty when the last mutation
// succeeded.
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Service) latch(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}

func (s *Service) clearError() {
	s.latch("")
}

func (s *Service) lookup(orderID string) *Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.userOrders {
		if o.ID == orderID {
			return o
		}
	}
	for _, o := range s.shopOrders {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

func (s *Service) replace(updated *Order) {
	if updated == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.userOrders {
		if o.ID == updated.ID {
			s.userOrders[i] = updated
		}
	}
	for i, o := range s.shopOrders {
		if o.ID == updated.ID {
			s.shopOrders[i] = updated
		}
	}
}

func buildProductLines(lines []cart.ProductLine) []ProductLine {
	out := make([]ProductLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ProductLine{
			ProductID:  line.Product.ID,
			Quantity:   line.Quantity,
			Note:       line.Note,
			TotalPrice: pricing.UnitPrice(line.Product) * float64(line.Quantity),
		})
	}
	return out
}

func buildPackageLines(lines []cart.PackageLine) []PackageLine {
	out := make([]PackageLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, PackageLine{
			PackageID:  line.Package.ID,
			Quantity:   line.Quantity,
			Note:       line.Note,
			TotalPrice: pricing.ResolvePackagePrice(line.Package) * float64(line.Quantity),
		})
	}
	return out
}

func sortNewestFirst(orders []*Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// userMessage prefers the store's own message when the error carries one
// and falls back to a generic line for transport failures.
func userMessage(err error) string {
	var m interface{ StoreMessage() string }
	if errors.As(err, &m) && m.StoreMessage() != "" {
		return m.StoreMessage()
	}
	return "something went wrong, please try again"
}
