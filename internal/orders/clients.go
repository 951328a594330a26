package orders

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/httputil"
)

// CatalogClient reserves inventory at the catalog service.
type CatalogClient interface {
	// Reserve forwards the caller's bearer token so the reservation passes
	// through the same auth gate as any other protected call.
	Reserve(ctx context.Context, bearer string, productID int64, quantity int) error
}

// NotifierClient delivers the best-effort order notification.
type NotifierClient interface {
	Notify(ctx context.Context, orderID int64, status Status) error
}

type catalogClient struct {
	http *httputil.Client
}

// NewCatalogClient creates the reservation client. The base URL normally
// points at the gateway's /products prefix so the call is auth-gated.
func NewCatalogClient(baseURL string, timeout time.Duration) CatalogClient {
	return &catalogClient{http: httputil.NewClient(baseURL, timeout)}
}

func (c *catalogClient) Reserve(ctx context.Context, bearer string, productID int64, quantity int) error {
	body := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}

	resp, err := c.http.Post(ctx, "/inventory/update", body, bearer)
	if err != nil {
		return apperrors.Unavailable("Inventory service unavailable", err)
	}
	defer httputil.DrainAndClose(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.UpstreamRejected("Insufficient stock")
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.UpstreamRejected("Product not found")
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized("Reservation call rejected: invalid credential")
	default:
		return apperrors.Unavailable("Inventory service returned an unexpected status", nil).
			WithDetails("status", resp.StatusCode)
	}
}

type notifierClient struct {
	http *httputil.Client
}

// NewNotifierClient creates the notification client.
func NewNotifierClient(baseURL string, timeout time.Duration) NotifierClient {
	return &notifierClient{http: httputil.NewClient(baseURL, timeout)}
}

func (c *notifierClient) Notify(ctx context.Context, orderID int64, status Status) error {
	body := map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	}

	resp, err := c.http.Post(ctx, "/api/notify", body, "")
	if err != nil {
		return apperrors.Unavailable("Notification service unreachable", err)
	}
	defer httputil.DrainAndClose(resp)

	if resp.StatusCode >= 400 {
		return apperrors.Unavailable("Notification service rejected the payload", nil).
			WithDetails("status", resp.StatusCode)
	}
	return nil
}
