package util

import (
	"context"
	"strconv"

	"umsshop/catalog-service/internal/app/catalog/entity"
)

// CategoryCache кеш списков категорий.
// Промах возвращает nil, nil. Ключи строятся от поколения, прочитанного до чтения из DynamoDB,
// Invalidate увеличивает поколение, поэтому снимок до записи попадает в уже мертвый ключ.
type CategoryCache interface {
	Generation(ctx context.Context) (int64, error)
	GetListing(ctx context.Context, key string) ([]entity.CategorySummary, error)
	SetListing(ctx context.Context, key string, items []entity.CategorySummary) error
	Invalidate(ctx context.Context) error
	Close() error
}

// ImageStorage хранилище изображений категорий, возвращает публичный URL
type ImageStorage interface {
	Upload(ctx context.Context, key string, image entity.CategoryImage) (string, error)
}

// ListingKey categories:<gen>:<level> для полного списка, categories:<gen>:<level>:p:<parent> для детей
func ListingKey(generation int64, level entity.Level, parentID string) string {
	key := categoriesKeyPrefix + strconv.FormatInt(generation, 10) + ":" + string(level)
	if parentID != "" {
		key += ":p:" + parentID
	}
	return key
}
