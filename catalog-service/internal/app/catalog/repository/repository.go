package repository

import (
	"context"
	"errors"

	"umsshop/catalog-service/internal/app/catalog/entity"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this id already exists")
)

// CategoryRepository хранилище трех уровней иерархии.
// Для запросов по вторичному индексу может вернуть dynamo.ErrIndexUnavailable.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByRef(ctx context.Context, ref entity.CategoryRef) (*entity.Category, error)
	List(ctx context.Context, level entity.Level) ([]entity.Category, error)
	ListByParent(ctx context.Context, level entity.Level, parentID string) ([]entity.Category, error)
	FindByName(ctx context.Context, level entity.Level, name string) ([]entity.Category, error)
	Update(ctx context.Context, ref entity.CategoryRef, patch entity.CategoryPatch) (*entity.Category, error)
	Delete(ctx context.Context, ref entity.CategoryRef) error
	DeleteMany(ctx context.Context, level entity.Level, ids []string) error
}
