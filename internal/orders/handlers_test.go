package orders_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/middleware"
	"github.com/sonalikodikara/cloudretail/internal/orders"
	"github.com/sonalikodikara/cloudretail/pkg/testutil"
)

func newOrdersServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()

	validator := testutil.NewMockValidator()
	validator.AddToken("customer-token", middleware.Identity{ID: 1, Name: "Test Customer", Email: "customer@example.com", Role: middleware.RoleCustomer})
	validator.AddToken("admin-token", middleware.Identity{ID: 2, Name: "Test Admin", Email: "admin@example.com", Role: middleware.RoleAdmin})

	f := newFixture()
	auth := middleware.NewAuthenticator(validator, zap.NewNop())
	handler := orders.NewHandler(f.service, auth, zap.NewNop())

	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv, f
}

func ordersRequest(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestPlaceOrderEndpoint(t *testing.T) {
	srv, f := newOrdersServer(t)

	resp := ordersRequest(t, http.MethodPost, srv.URL+"/api/orders", "customer-token",
		map[string]interface{}{"product_id": 1, "quantity": 2})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, int64(1), order.UserID)
	assert.Equal(t, orders.StatusCreated, order.Status)

	// The caller's own token is forwarded for the reservation.
	calls := f.catalog.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "customer-token", calls[0].Bearer)
}

func TestPlaceOrderEndpointRequiresToken(t *testing.T) {
	srv, f := newOrdersServer(t)

	resp := ordersRequest(t, http.MethodPost, srv.URL+"/api/orders", "",
		map[string]interface{}{"product_id": 1, "quantity": 2})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, f.catalog.Calls())
}

func TestPlaceOrderEndpointBadBody(t *testing.T) {
	srv, _ := newOrdersServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/orders", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer customer-token")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetOrderEndpoint(t *testing.T) {
	srv, f := newOrdersServer(t)

	placed, err := f.service.PlaceOrder(context.Background(), customer, "customer-token", 1, 1)
	require.NoError(t, err)

	resp := ordersRequest(t, http.MethodGet, srv.URL+"/api/orders/1", "customer-token", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, placed.ID, order.ID)

	resp = ordersRequest(t, http.MethodGet, srv.URL+"/api/orders/42", "customer-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatusEndpointRequiresAdmin(t *testing.T) {
	srv, f := newOrdersServer(t)

	_, err := f.service.PlaceOrder(context.Background(), customer, "customer-token", 1, 1)
	require.NoError(t, err)

	payload := map[string]string{"status": "CONFIRMED"}

	resp := ordersRequest(t, http.MethodPut, srv.URL+"/api/orders/1/status", "customer-token", payload)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ordersRequest(t, http.MethodPut, srv.URL+"/api/orders/1/status", "admin-token", payload)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, orders.StatusConfirmed, order.Status)
}
