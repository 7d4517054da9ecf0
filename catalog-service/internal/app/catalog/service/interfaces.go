package service

import (
	"context"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/pkg/audit"
)

type CatalogServiceInterface interface {
	ListCategories(ctx context.Context, level entity.Level, parentID string) ([]entity.CategorySummary, error)
	GetCategory(ctx context.Context, ref entity.CategoryRef) (*entity.Category, error)
	LookupCategory(ctx context.Context, id string) (*entity.Category, error)
	CreateCategory(ctx context.Context, actor audit.Actor, req *entity.CreateCategoryRequest, image *entity.CategoryImage) (*entity.Category, error)
	UpdateCategory(ctx context.Context, actor audit.Actor, ref entity.CategoryRef, patch entity.CategoryPatch) (*entity.Category, error)
	DeleteCategory(ctx context.Context, actor audit.Actor, ref entity.CategoryRef) (int, error)
}
