package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Append(ctx context.Context, entry *Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func TestStoreRecorder_Record_UsesActor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mockStore)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	store.On("Append", ctx, mock.MatchedBy(func(e *Entry) bool {
		return e.Manager == "kim@umsshop.kr" &&
			e.DeviceInfo == "Chrome / 1.2.3.4" &&
			e.ActionType == ActionCategoryDelete &&
			e.Details == "sub1 Vitamins" &&
			e.Timestamp.Equal(fixed)
	})).Return(nil)

	recorder := NewRecorder(store, "audit-test")
	recorder.now = func() time.Time { return fixed }

	// Act
	recorder.Record(ctx, Actor{Manager: "kim@umsshop.kr", DeviceInfo: "Chrome / 1.2.3.4"}, ActionCategoryDelete, "sub1 Vitamins")

	// Assert
	store.AssertExpectations(t)
}

func TestStoreRecorder_Record_SwallowsStoreError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := new(mockStore)
	store.On("Append", ctx, mock.AnythingOfType("*audit.Entry")).Return(errors.New("db down"))

	recorder := NewRecorder(store, "audit-test")

	// Act & Assert - ошибка истории не должна всплывать к вызывающему
	assert.NotPanics(t, func() {
		recorder.Record(ctx, SystemActor("users-service"), ActionUserApproval, "seq=1")
	})
	store.AssertExpectations(t)
}

func TestSystemActor(t *testing.T) {
	actor := SystemActor("users-service")

	assert.Equal(t, "system:users-service", actor.Manager)
	assert.Equal(t, "users-service", actor.DeviceInfo)
}
