package storeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pasargo/internal/order"

	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Token: "test-token"})
}

func TestClient_CreateOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/order/create", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			var req order.CreateOrderRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "u-1", req.UserID)
			assert.Nil(t, req.DeliveryAddress)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1", "id_user": "u-1", "order_status": "pending"}}`))
		})

		created, err := c.CreateOrder(context.Background(), order.CreateOrderRequest{
			UserID:       "u-1",
			ShopID:       "s-1",
			DeliveryType: "pickup",
		})

		assert.NoError(t, err)
		assert.Equal(t, "o-1", created.ID)
		assert.Equal(t, order.StatusPending, created.Status)
	})

	t.Run("Envelope error wins over data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1"}, "error": "shop is closed"}`))
		})

		created, err := c.CreateOrder(context.Background(), order.CreateOrderRequest{})

		assert.Nil(t, created)
		var se *StoreError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, "shop is closed", se.StoreMessage())
	})

	t.Run("Non-success status without envelope", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})

		_, err := c.CreateOrder(context.Background(), order.CreateOrderRequest{})

		var se *StoreError
		assert.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	})
}

func TestClient_OrderLists(t *testing.T) {
	t.Run("OrdersByUser posts the user id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/order/by-user-id", r.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u-1", body["id_user"])

			_, _ = w.Write([]byte(`{"data": [{"id_order": "o-1"}, {"id_order": "o-2"}]}`))
		})

		orders, err := c.OrdersByUser(context.Background(), "u-1")

		assert.NoError(t, err)
		assert.Len(t, orders, 2)
	})

	t.Run("AvailableForRiders is a plain GET", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/order/available-for-riders", r.URL.Path)
			_, _ = w.Write([]byte(`{"data": [{"id_order": "o-1", "id_rider": null}]}`))
		})

		orders, err := c.AvailableForRiders(context.Background())

		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Nil(t, orders[0].RiderID)
	})
}

func TestClient_Dispatch(t *testing.T) {
	t.Run("AssignRider patches the rider id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/order/assign-rider/o-1", r.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "r-1", body["id_rider"])

			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1", "id_rider": "r-1", "rider_accepted": null}}`))
		})

		updated, err := c.AssignRider(context.Background(), "o-1", "r-1")

		assert.NoError(t, err)
		assert.Equal(t, order.RiderPendingApproval, updated.RiderAssignment().State)
	})

	t.Run("RiderResponse carries the decision", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/order/rider-response/o-1", r.URL.Path)

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "r-1", body["id_rider"])
			assert.Equal(t, false, body["accepted"])

			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1", "id_rider": "r-1", "rider_accepted": false}}`))
		})

		updated, err := c.RiderResponse(context.Background(), "o-1", "r-1", false)

		assert.NoError(t, err)
		assert.Equal(t, order.RiderRejected, updated.RiderAssignment().State)
	})
}

func TestClient_UpdateStatusAndCancel(t *testing.T) {
	t.Run("UpdateStatus", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/order/update-status/o-1", r.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "confirmed", body["order_status"])

			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1", "order_status": "confirmed"}}`))
		})

		updated, err := c.UpdateStatus(context.Background(), "o-1", order.StatusConfirmed)

		assert.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, updated.Status)
	})

	t.Run("Cancel with reason", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/order/cancel/o-1", r.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "out of stock", body["cancellation_reason"])

			_, _ = w.Write([]byte(`{"data": {"id_order": "o-1", "order_status": "cancelled"}}`))
		})

		updated, err := c.Cancel(context.Background(), "o-1", "out of stock")

		assert.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, updated.Status)
	})
}

func TestClient_CheckPurchase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/order/check-purchase", r.URL.Path)
		assert.Equal(t, "u-1", r.URL.Query().Get("id_user"))
		assert.Equal(t, "s-1", r.URL.Query().Get("id_shop"))
		_, _ = w.Write([]byte(`{"data": {"hasPurchased": true}}`))
	})

	ok, err := c.CheckPurchase(context.Background(), "u-1", "s-1")

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestClient_Transport(t *testing.T) {
	t.Run("Transport failure is not a StoreError", func(t *testing.T) {
		c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

		_, err := c.AvailableForRiders(context.Background())

		assert.Error(t, err)
		var se *StoreError
		assert.False(t, errors.As(err, &se))
	})

	t.Run("Requests keep their submission order through the limiter", func(t *testing.T) {
		var mu sync.Mutex
		var paths []string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			paths = append(paths, r.URL.Path)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"data": []}`))
		})

		_, _ = c.AvailableForRiders(context.Background())
		_, _ = c.OrdersByRider(context.Background(), "r-1")

		assert.Equal(t, []string{"/order/available-for-riders", "/order/by-rider-id"}, paths)
	})
}
