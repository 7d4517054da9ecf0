package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]bool
		category string
		expected bool
	}{
		{"nil settings", nil, CategoryOrder, true},
		{"missing key", map[string]bool{CategoryQnA: false}, CategoryOrder, true},
		{"explicit true", map[string]bool{CategoryOrder: true}, CategoryOrder, true},
		{"explicit false", map[string]bool{CategoryOrder: false}, CategoryOrder, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Allowed(tt.settings, tt.category))
		})
	}
}

func TestNotificationInput_Record(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	in := NotificationInput{Code: "ORDER_STATUS", Category: CategoryDelivery, Title: "t", OrderID: "ORD-1"}

	rec := in.Record(now)

	assert.Equal(t, now, rec.Timestamp)
	assert.False(t, rec.Read)
	assert.Equal(t, "ORD-1", rec.OrderID)
	assert.Equal(t, CategoryDelivery, rec.Category)
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory(CategoryAccount))
	assert.False(t, IsCategory("marketing"))
	assert.Len(t, Categories(), 6)
}
