// Package testutil provides common testing utilities and mock
// implementations of the service-to-service clients.
package testutil

import (
	"context"
	"sync"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
	"github.com/sonalikodikara/cloudretail/internal/orders"
)

var errUnknownToken = apperrors.Unauthorized("Invalid token")

// MockValidator is a test implementation of middleware.TokenValidator that
// resolves tokens from a fixed table.
type MockValidator struct {
	mu         sync.RWMutex
	identities map[string]*middleware.Identity
	err        error
}

// NewMockValidator creates an empty mock validator.
func NewMockValidator() *MockValidator {
	return &MockValidator{identities: make(map[string]*middleware.Identity)}
}

// AddToken registers a token resolving to the given identity.
func (m *MockValidator) AddToken(token string, id middleware.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[token] = &id
}

// Fail makes every validation return err, simulating an unreachable or
// rejecting verifier.
func (m *MockValidator) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Validate resolves a token.
func (m *MockValidator) Validate(_ context.Context, token string) (*middleware.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}
	if id, ok := m.identities[token]; ok {
		clone := *id
		return &clone, nil
	}
	return nil, errUnknownToken
}

// MockCatalog is a test implementation of orders.CatalogClient recording
// reservation calls.
type MockCatalog struct {
	mu    sync.Mutex
	err   error
	calls []ReserveCall
}

// ReserveCall records one reservation attempt.
type ReserveCall struct {
	Bearer    string
	ProductID int64
	Quantity  int
}

// NewMockCatalog creates a mock catalog that accepts every reservation.
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{}
}

// Fail makes every reservation return err.
func (m *MockCatalog) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reserve records the call and returns the configured outcome.
func (m *MockCatalog) Reserve(_ context.Context, bearer string, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, ReserveCall{Bearer: bearer, ProductID: productID, Quantity: quantity})
	return m.err
}

// Calls returns the recorded reservation attempts.
func (m *MockCatalog) Calls() []ReserveCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ReserveCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockNotifier is a test implementation of orders.NotifierClient.
type MockNotifier struct {
	mu    sync.Mutex
	err   error
	calls []NotifyCall
}

// NotifyCall records one notification attempt.
type NotifyCall struct {
	OrderID int64
	Status  orders.Status
}

// NewMockNotifier creates a mock notifier that accepts every payload.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Fail makes every notification return err.
func (m *MockNotifier) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Notify records the call and returns the configured outcome.
func (m *MockNotifier) Notify(_ context.Context, orderID int64, status orders.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, NotifyCall{OrderID: orderID, Status: status})
	return m.err
}

// Calls returns the recorded notification attempts.
func (m *MockNotifier) Calls() []NotifyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotifyCall, len(m.calls))
	copy(out, m.calls)
	return out
}
