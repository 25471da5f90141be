package storeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"pasargo/internal/logger"
	"pasargo/internal/order"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Config carries the client settings; zero values fall back to sane
// defaults matching the store's expected load.
type Config struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client talks to the remote order store over its JSON endpoints. Every
// response uses the {data, error} envelope; an error string means the call
// failed and data is ignored. Outgoing calls pass a shared rate limiter so
// aggressive polling cannot flood the store.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	return &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
}

// ----------------- Orders -----------------

func (c *Client) CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*order.Order, error) {
	return call[*order.Order](ctx, c, http.MethodPost, "/order/create", req, nil)
}

func (c *Client) OrdersByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	body := map[string]string{"id_user": userID}
	return call[[]*order.Order](ctx, c, http.MethodPost, "/order/by-user-id", body, nil)
}

func (c *Client) OrdersByShop(ctx context.Context, shopID string) ([]*order.Order, error) {
	body := map[string]string{"id_shop": shopID}
	return call[[]*order.Order](ctx, c, http.MethodPost, "/order/by-shop-id", body, nil)
}

func (c *Client) OrdersByRider(ctx context.Context, riderID string) ([]*order.Order, error) {
	body := map[string]string{"id_rider": riderID}
	return call[[]*order.Order](ctx, c, http.MethodPost, "/order/by-rider-id", body, nil)
}

func (c *Client) AvailableForRiders(ctx context.Context) ([]*order.Order, error) {
	return call[[]*order.Order](ctx, c, http.MethodGet, "/order/available-for-riders", nil, nil)
}

func (c *Client) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	body := map[string]string{"order_status": string(status)}
	return call[*order.Order](ctx, c, http.MethodPatch, "/order/update-status/"+url.PathEscape(orderID), body, nil)
}

func (c *Client) Cancel(ctx context.Context, orderID, reason string) (*order.Order, error) {
	body := map[string]string{"cancellation_reason": reason}
	return call[*order.Order](ctx, c, http.MethodPatch, "/order/cancel/"+url.PathEscape(orderID), body, nil)
}

// ----------------- Dispatch -----------------

func (c *Client) AssignRider(ctx context.Context, orderID, riderID string) (*order.Order, error) {
	body := map[string]string{"id_rider": riderID}
	return call[*order.Order](ctx, c, http.MethodPatch, "/order/assign-rider/"+url.PathEscape(orderID), body, nil)
}

func (c *Client) RiderResponse(ctx context.Context, orderID, riderID string, accepted bool) (*order.Order, error) {
	body := map[string]any{"id_rider": riderID, "accepted": accepted}
	return call[*order.Order](ctx, c, http.MethodPatch, "/order/rider-response/"+url.PathEscape(orderID), body, nil)
}

// ----------------- Eligibility -----------------

func (c *Client) CheckPurchase(ctx context.Context, userID, shopID string) (bool, error) {
	query := map[string]string{"id_user": userID, "id_shop": shopID}
	res, err := call[struct {
		HasPurchased bool `json:"hasPurchased"`
	}](ctx, c, http.MethodGet, "/order/check-purchase", nil, query)
	if err != nil {
		return false, err
	}
	return res.HasPurchased, nil
}

// ----------------- Plumbing -----------------

// call issues one request and decodes the envelope into T.
func call[T any](ctx context.Context, c *Client, method, path string, body any, query map[string]string) (T, error) {
	var zero T

	if err := c.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("rate limiter: %w", err)
	}

	reqID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", reqID)
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		log.Error("store request failed", zap.Error(err))
		return zero, fmt.Errorf("store request: %w", err)
	}

	var env struct {
		Data  T      `json:"data"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		if resp.StatusCode() >= http.StatusBadRequest {
			log.Error("store returned non-success status",
				zap.Int("status", resp.StatusCode()),
				zap.ByteString("response", resp.Body()),
			)
			return zero, &StoreError{StatusCode: resp.StatusCode()}
		}
		log.Error("failed decoding store response", zap.Error(err))
		return zero, fmt.Errorf("decode store response: %w", err)
	}

	if env.Error != "" {
		log.Warn("store reported an error",
			zap.Int("status", resp.StatusCode()),
			zap.String("store_error", env.Error),
		)
		return zero, &StoreError{StatusCode: resp.StatusCode(), Message: env.Error}
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		log.Error("store returned non-success status", zap.Int("status", resp.StatusCode()))
		return zero, &StoreError{StatusCode: resp.StatusCode()}
	}

	return env.Data, nil
}
