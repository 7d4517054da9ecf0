package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/catalog-service/internal/app/catalog/repository"
	"umsshop/catalog-service/internal/app/catalog/util"
	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"
	"umsshop/pkg/logger"
	"umsshop/pkg/metrics"

	"github.com/google/uuid"
)

// Options поведение каталога, задается конфигурацией
type Options struct {
	DeletePolicy entity.DeletePolicy
}

// CatalogService обрабатывает бизнес-логику иерархии категорий
// Координирует работу репозитория, Redis кеша, S3 и журнала действий
type CatalogService struct {
	repo     repository.CategoryRepository
	cache    util.CategoryCache
	images   util.ImageStorage
	recorder audit.Recorder
	policy   entity.DeletePolicy
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	repo repository.CategoryRepository,
	cache util.CategoryCache,
	images util.ImageStorage,
	recorder audit.Recorder,
	opts Options,
) *CatalogService {
	if opts.DeletePolicy == "" {
		opts.DeletePolicy = entity.DeletePolicyOrphan
	}
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		images:   images,
		recorder: recorder,
		policy:   opts.DeletePolicy,
	}
}

// ListCategories возвращает узлы уровня, отсортированные по (order, name).
// Сначала проверяется кеш, при промахе список собирается из DynamoDB вместе со счетчиками детей.
func (s *CatalogService) ListCategories(ctx context.Context, level entity.Level, parentID string) ([]entity.CategorySummary, error) {
	if level == entity.LevelMain && parentID != "" {
		return nil, fmt.Errorf("%w: main categories have no parent", ErrInvalidCategory)
	}

	// Поколение читается до DynamoDB: без него кеш не используется
	gen, err := s.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read categories cache generation")
	}

	key := util.ListingKey(gen, level, parentID)
	if cacheable {
		cached, err := s.cache.GetListing(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to read categories from cache")
		}
		if cached != nil {
			return cached, nil
		}
	}

	var nodes []entity.Category
	if parentID == "" {
		nodes, err = s.repo.List(ctx, level)
	} else {
		nodes, err = s.repo.ListByParent(ctx, level, parentID)
	}
	if err != nil {
		return nil, s.mapRepoError(err, "failed to list categories")
	}

	counts, err := s.childCounts(ctx, level)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to count child categories")
	}

	sortCategories(nodes)

	summaries := make([]entity.CategorySummary, 0, len(nodes))
	for _, n := range nodes {
		summaries = append(summaries, entity.CategorySummary{
			CategoryID: n.ID,
			Name:       n.Name,
			Code:       n.Code,
			Status:     n.Status,
			Order:      n.Order,
			ParentID:   n.ParentID,
			ImageURL:   n.ImageURL,
			ChildCount: counts[n.ID],
		})
	}

	if cacheable {
		if err := s.cache.SetListing(ctx, key, summaries); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to cache categories")
		}
	}

	return summaries, nil
}

// childCounts один список дочернего уровня, сгруппированный по родителю.
// Для sub2 возвращает пустую карту.
func (s *CatalogService) childCounts(ctx context.Context, level entity.Level) (map[string]int, error) {
	counts := make(map[string]int)

	child, ok := level.Child()
	if !ok {
		return counts, nil
	}

	children, err := s.repo.List(ctx, child)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		counts[c.ParentID]++
	}
	return counts, nil
}

func sortCategories(nodes []entity.Category) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// GetCategory получает узел по явному адресу
func (s *CatalogService) GetCategory(ctx context.Context, ref entity.CategoryRef) (*entity.Category, error) {
	category, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to get category")
	}
	return category, nil
}

// LookupCategory для старых ссылок, где известен только id
func (s *CatalogService) LookupCategory(ctx context.Context, id string) (*entity.Category, error) {
	return s.GetCategory(ctx, entity.CategoryRef{Level: entity.InferLevel(id), ID: id})
}

// CreateCategory создает узел указанного уровня.
// Имя уникально в пределах уровня, при дубликате ничего не записывается.
func (s *CatalogService) CreateCategory(ctx context.Context, actor audit.Actor, req *entity.CreateCategoryRequest, image *entity.CategoryImage) (*entity.Category, error) {
	category, err := buildCategory(req)
	if err != nil {
		return nil, err
	}
	if image != nil && category.Level != entity.LevelMain {
		return nil, fmt.Errorf("%w: image is supported for main categories only", ErrInvalidCategory)
	}

	if err := s.ensureUniqueName(ctx, category.Level, category.Name, ""); err != nil {
		return nil, err
	}

	switch category.Level {
	case entity.LevelMain:
		category.ID = uuid.NewString()
	default:
		category.ID = entity.ChildID(category.ParentID, category.Level, randomSuffix())
	}

	if image != nil {
		key := path.Join("categories", category.ID, path.Base(image.Filename))
		url, err := s.images.Upload(ctx, key, *image)
		if err != nil {
			return nil, fmt.Errorf("failed to upload category image: %w", err)
		}
		category.ImageURL = url
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	metrics.CategoriesCreated.WithLabelValues(string(category.Level)).Inc()
	s.invalidate(ctx)
	s.recorder.Record(ctx, actor, audit.ActionCategoryCreate,
		fmt.Sprintf("created %s %q", category.Ref(), category.Name))

	logger.Info().
		Str("category_id", category.ID).
		Str("category_level", string(category.Level)).
		Str("actor", actor.Manager).
		Msg("Category created")

	return category, nil
}

// buildCategory проверяет обязательные поля уровня и заполняет значения по умолчанию
func buildCategory(req *entity.CreateCategoryRequest) (*entity.Category, error) {
	level, err := entity.ParseLevel(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}

	category := &entity.Category{
		Level:  level,
		Name:   strings.TrimSpace(req.Name),
		Code:   strings.TrimSpace(req.Code),
		Status: entity.StatusActive,
		Order:  entity.DefaultSortOrder,
	}
	if category.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}

	switch level {
	case entity.LevelSub1:
		category.ParentID = strings.TrimSpace(req.MainCategoryID)
		if category.ParentID == "" {
			return nil, fmt.Errorf("%w: mainCategoryId is required", ErrInvalidCategory)
		}
	case entity.LevelSub2:
		category.ParentID = strings.TrimSpace(req.SubCategory1ID)
		if category.ParentID == "" {
			return nil, fmt.Errorf("%w: subCategory1Id is required", ErrInvalidCategory)
		}
		if category.Code == "" {
			return nil, fmt.Errorf("%w: code is required", ErrInvalidCategory)
		}
	}

	if req.Status != "" {
		category.Status = entity.CategoryStatus(req.Status)
		if !category.Status.Valid() {
			return nil, fmt.Errorf("%w: status must be Active or Inactive", ErrInvalidCategory)
		}
	}
	if req.Order != nil {
		category.Order = *req.Order
	}

	return category, nil
}

// ensureUniqueName Conflict, если имя занято другим узлом уровня
func (s *CatalogService) ensureUniqueName(ctx context.Context, level entity.Level, name, selfID string) error {
	existing, err := s.repo.FindByName(ctx, level, name)
	if err != nil {
		return s.mapRepoError(err, "failed to check duplicate name")
	}
	for _, c := range existing {
		if c.ID != selfID {
			return ErrCategoryAlreadyExists
		}
	}
	return nil
}

// UpdateCategory частично обновляет узел. Повторный вызов с тем же патчем не меняет состояние.
func (s *CatalogService) UpdateCategory(ctx context.Context, actor audit.Actor, ref entity.CategoryRef, patch entity.CategoryPatch) (*entity.Category, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidCategory)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be Active or Inactive", ErrInvalidCategory)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidCategory)
		}
		patch.Name = &name

		if err := s.ensureUniqueName(ctx, ref.Level, name, ref.ID); err != nil {
			return nil, err
		}
	}

	category, err := s.repo.Update(ctx, ref, patch)
	if err != nil {
		return nil, s.mapRepoError(err, "failed to update category")
	}

	s.invalidate(ctx)
	s.recorder.Record(ctx, actor, audit.ActionCategoryUpdate, fmt.Sprintf("updated %s", ref))

	return category, nil
}

// DeleteCategory удаляет узел согласно политике и возвращает число удаленных потомков
func (s *CatalogService) DeleteCategory(ctx context.Context, actor audit.Actor, ref entity.CategoryRef) (int, error) {
	removed := 0

	switch s.policy {
	case entity.DeletePolicyBlock:
		if _, err := s.repo.GetByRef(ctx, ref); err != nil {
			return 0, s.mapRepoError(err, "failed to get category")
		}
		if child, ok := ref.Level.Child(); ok {
			children, err := s.repo.ListByParent(ctx, child, ref.ID)
			if err != nil {
				return 0, s.mapRepoError(err, "failed to list child categories")
			}
			if len(children) > 0 {
				return 0, ErrCategoryHasChildren
			}
		}

	case entity.DeletePolicyCascade:
		if _, err := s.repo.GetByRef(ctx, ref); err != nil {
			return 0, s.mapRepoError(err, "failed to get category")
		}
		n, err := s.deleteDescendants(ctx, ref)
		if err != nil {
			return 0, err
		}
		removed = n
	}

	if err := s.repo.Delete(ctx, ref); err != nil {
		return removed, s.mapRepoError(err, "failed to delete category")
	}

	metrics.CategoriesDeleted.WithLabelValues(string(ref.Level), string(s.policy)).Inc()
	s.invalidate(ctx)
	s.recorder.Record(ctx, actor, audit.ActionCategoryDelete,
		fmt.Sprintf("deleted %s (policy=%s, descendants=%d)", ref, s.policy, removed))

	logger.Info().
		Str("category", ref.String()).
		Str("policy", string(s.policy)).
		Int("descendants", removed).
		Str("actor", actor.Manager).
		Msg("Category deleted")

	return removed, nil
}

// deleteDescendants удаляет поддерево снизу вверх: сначала sub2, потом sub1
func (s *CatalogService) deleteDescendants(ctx context.Context, ref entity.CategoryRef) (int, error) {
	child, ok := ref.Level.Child()
	if !ok {
		return 0, nil
	}

	children, err := s.repo.ListByParent(ctx, child, ref.ID)
	if err != nil {
		return 0, s.mapRepoError(err, "failed to list child categories")
	}

	removed := 0
	ids := make([]string, 0, len(children))
	for _, c := range children {
		n, err := s.deleteDescendants(ctx, c.Ref())
		if err != nil {
			return removed, err
		}
		removed += n
		ids = append(ids, c.ID)
	}

	if err := s.repo.DeleteMany(ctx, child, ids); err != nil {
		return removed, fmt.Errorf("failed to delete child categories: %w", err)
	}

	return removed + len(ids), nil
}

// invalidate ошибки кеша не прерывают операцию, запись уже выполнена
func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}

func (s *CatalogService) mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, dynamo.ErrIndexUnavailable):
		return ErrIndexUnavailable
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// randomSuffix 8 символов hex в нижнем регистре
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
