package dispatch

import (
	"context"
	"fmt"
	"sync"

	"pasargo/internal/logger"
	"pasargo/internal/order"
	"pasargo/internal/session"

	"go.uber.org/zap"
)

// StoreAPI is the slice of the remote store the coordinator drives.
type StoreAPI interface {
	AvailableForRiders(ctx context.Context) ([]*order.Order, error)
	OrdersByRider(ctx context.Context, riderID string) ([]*order.Order, error)
	OrdersByShop(ctx context.Context, shopID string) ([]*order.Order, error)
	AssignRider(ctx context.Context, orderID, riderID string) (*order.Order, error)
	RiderResponse(ctx context.Context, orderID, riderID string, accepted bool) (*order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
}

// Coordinator runs the rider-matching protocol on top of the order record.
// The store is the single source of truth: every sync recomputes the views
// from what the store returned, and a failed call leaves the last known
// state untouched until the next poll reconciles it.
type Coordinator struct {
	api  StoreAPI
	sess *session.Session

	mu   sync.Mutex
	view View
	shop []*order.Order
	// requestingOrderID guards against firing a second assign-rider call
	// while one is pending. It does not abort the first.
	requestingOrderID string
	lastError         string
}

func NewCoordinator(api StoreAPI, sess *session.Session) *Coordinator {
	return &Coordinator{api: api, sess: sess}
}

// SyncRider refreshes the rider's three views from the store. The
// available feed and the rider's own orders come from separate endpoints;
// both are folded into one categorization. Any fetch failure resets the
// views to empty rather than leaving them stale.
func (c *Coordinator) SyncRider(ctx context.Context) error {
	log := logger.FromCtx(ctx)

	if c.sess == nil || c.sess.RiderID == "" {
		return ErrNoRiderIdentity
	}
	riderID := c.sess.RiderID

	available, err := c.api.AvailableForRiders(ctx)
	if err != nil {
		log.Warn("fetch available orders failed", zap.Error(err))
		c.setView(View{})
		return fmt.Errorf("fetch available orders: %w", err)
	}

	own, err := c.api.OrdersByRider(ctx, riderID)
	if err != nil {
		log.Warn("fetch rider orders failed", zap.Error(err))
		c.setView(View{})
		return fmt.Errorf("fetch rider orders: %w", err)
	}

	merged := mergeByID(available, own)
	for _, o := range merged {
		if o.Inconsistent() {
			log.Warn("order has accepted flag without a rider, treating as unrequested",
				zap.String("order_id", o.ID))
		}
	}

	c.setView(Categorize(merged, riderID))
	return nil
}

// SyncShop refreshes the shop's order list used for rider decisions.
func (c *Coordinator) SyncShop(ctx context.Context) error {
	if c.sess == nil || c.sess.ShopID == "" {
		return ErrNoShopIdentity
	}

	orders, err := c.api.OrdersByShop(ctx, c.sess.ShopID)
	if err != nil {
		logger.FromCtx(ctx).Warn("fetch shop orders failed", zap.Error(err))
		orders = nil
	}

	c.mu.Lock()
	c.shop = orders
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("fetch shop orders: %w", err)
	}
	return nil
}

// RequestOrder asks the store to attach this rider to the order. Success
// does not touch the local views; the order moves from Available to
// Pending on the next refresh. A second request while one is in flight is
// refused by the busy guard.
func (c *Coordinator) RequestOrder(ctx context.Context, orderID string) error {
	if c.sess == nil || c.sess.RiderID == "" {
		return ErrNoRiderIdentity
	}

	c.mu.Lock()
	if c.requestingOrderID != "" {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.requestingOrderID = orderID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.requestingOrderID = ""
		c.mu.Unlock()
	}()

	_, err := c.api.AssignRider(ctx, orderID, c.sess.RiderID)
	if err != nil {
		logger.FromCtx(ctx).Error("request order failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		c.latch("could not request the order, please try again")
		return fmt.Errorf("request order: %w", err)
	}

	c.clearError()
	logger.FromCtx(ctx).Info("order requested",
		zap.String("order_id", orderID),
		zap.String("rider_id", c.sess.RiderID),
	)
	return nil
}

// RespondToRiderRequest records the shop's accept or reject decision. A
// reject keeps id_rider on the record so the rejected rider stays visible
// in history while the order reopens for requests.
func (c *Coordinator) RespondToRiderRequest(ctx context.Context, orderID, riderID string, accepted bool) error {
	if c.sess == nil || c.sess.ShopID == "" {
		return ErrNoShopIdentity
	}

	updated, err := c.api.RiderResponse(ctx, orderID, riderID, accepted)
	if err != nil {
		logger.FromCtx(ctx).Error("rider response failed",
			zap.String("order_id", orderID),
			zap.String("rider_id", riderID),
			zap.Bool("accepted", accepted),
			zap.Error(err),
		)
		c.latch("could not record the decision, please try again")
		return fmt.Errorf("rider response: %w", err)
	}

	c.mu.Lock()
	for i, o := range c.shop {
		if o.ID == updated.ID {
			c.shop[i] = updated
		}
	}
	c.mu.Unlock()

	c.clearError()
	return nil
}

// UpdateDeliveryStatus advances an accepted order's fulfillment status,
// typically ready -> delivered. Only meaningful for orders in Mine.
func (c *Coordinator) UpdateDeliveryStatus(ctx context.Context, orderID string, status order.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	current := c.mine(orderID)
	if current == nil {
		return ErrNotAssigned
	}
	if !current.Status.CanTransitionTo(status) {
		return order.ErrInvalidTransition
	}

	updated, err := c.api.UpdateStatus(ctx, orderID, status)
	if err != nil {
		logger.FromCtx(ctx).Error("update delivery status failed",
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		c.latch("could not update the delivery status")
		return fmt.Errorf("update delivery status: %w", err)
	}

	c.mu.Lock()
	for i, o := range c.view.Mine {
		if o.ID == updated.ID {
			c.view.Mine[i] = updated
		}
	}
	c.mu.Unlock()

	c.clearError()
	return nil
}

// Available returns the rider's current available pool.
func (c *Coordinator) Available() []*order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*order.Order(nil), c.view.Available...)
}

// Pending returns the orders this rider has requested.
func (c *Coordinator) Pending() []*order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*order.Order(nil), c.view.Pending...)
}

// Mine returns the orders the shop approved for this rider.
func (c *Coordinator) Mine() []*order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*order.Order(nil), c.view.Mine...)
}

// ShopPendingRequests returns the shop's undecided rider requests.
func (c *Coordinator) ShopPendingRequests() []*order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PendingRiderRequests(c.shop)
}

// LastError is the transient user-facing error slot.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

func (c *Coordinator) setView(v View) {
	c.mu.Lock()
	c.view = v
	c.mu.Unlock()
}

func (c *Coordinator) latch(msg string) {
	c.mu.Lock()
	c.lastError = msg
	c.mu.Unlock()
}

func (c *Coordinator) clearError() {
	c.latch("")
}

func (c *Coordinator) mine(orderID string) *order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.view.Mine {
		if o.ID == orderID {
			return o
		}
	}
	return nil
}

// mergeByID folds both fetches into one set; the rider's own list wins on
// duplicates since by-rider-id is the more specific query.
func mergeByID(available, own []*order.Order) []*order.Order {
	seen := make(map[string]int, len(available))
	out := make([]*order.Order, 0, len(available)+len(own))

	for _, o := range available {
		seen[o.ID] = len(out)
		out = append(out, o)
	}
	for _, o := range own {
		if i, ok := seen[o.ID]; ok {
			out[i] = o
			continue
		}
		out = append(out, o)
	}
	return out
}
