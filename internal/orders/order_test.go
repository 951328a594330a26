package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"CREATED", StatusCreated, false},
		{"created", StatusCreated, false},
		{"PLACED", StatusCreated, false}, // legacy spelling
		{"CONFIRMED", StatusConfirmed, false},
		{"SHIPPED", StatusShipped, false},
		{"DELIVERED", StatusDelivered, false},
		{"CANCELLED", StatusCancelled, false},
		{"UNKNOWN", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusCreated, StatusConfirmed},
		{StatusCreated, StatusCancelled},
		{StatusConfirmed, StatusShipped},
		{StatusConfirmed, StatusCancelled},
		{StatusShipped, StatusDelivered},
		{StatusShipped, StatusCancelled},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to Status }{
		{StatusCreated, StatusShipped},
		{StatusCreated, StatusDelivered},
		{StatusConfirmed, StatusCreated},
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusCreated},
		{StatusDelivered, StatusShipped},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewOrder(t *testing.T) {
	order, err := New(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.UserID)
	assert.Equal(t, int64(2), order.ProductID)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, StatusCreated, order.Status)

	_, err = New(1, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = New(1, 2, -5)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}
