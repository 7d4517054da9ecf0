package mocks

import (
	"context"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/pkg/audit"

	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByRef(ctx context.Context, ref entity.CategoryRef) (*entity.Category, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, level entity.Level) ([]entity.Category, error) {
	args := m.Called(ctx, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListByParent(ctx context.Context, level entity.Level, parentID string) ([]entity.Category, error) {
	args := m.Called(ctx, level, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, level entity.Level, name string) ([]entity.Category, error) {
	args := m.Called(ctx, level, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, ref entity.CategoryRef, patch entity.CategoryPatch) (*entity.Category, error) {
	args := m.Called(ctx, ref, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, ref entity.CategoryRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteMany(ctx context.Context, level entity.Level, ids []string) error {
	args := m.Called(ctx, level, ids)
	return args.Error(0)
}

// MockCategoryCache мок для util.CategoryCache
type MockCategoryCache struct {
	mock.Mock
}

func (m *MockCategoryCache) Generation(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryCache) GetListing(ctx context.Context, key string) ([]entity.CategorySummary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CategorySummary), args.Error(1)
}

func (m *MockCategoryCache) SetListing(ctx context.Context, key string, items []entity.CategorySummary) error {
	args := m.Called(ctx, key, items)
	return args.Error(0)
}

func (m *MockCategoryCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCategoryCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockImageStorage мок для util.ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, key string, image entity.CategoryImage) (string, error) {
	args := m.Called(ctx, key, image)
	return args.String(0), args.Error(1)
}

// MockRecorder мок для audit.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, actor audit.Actor, action audit.ActionType, details string) {
	m.Called(ctx, actor, action, details)
}
