package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/catalog-service/internal/app/catalog/repository"
	"umsshop/catalog-service/internal/app/catalog/repository/mocks"
	"umsshop/catalog-service/internal/app/catalog/util"
	"umsshop/pkg/audit"
	"umsshop/pkg/dynamo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Хелперы для создания тестовых данных

var testActor = audit.Actor{Manager: "admin@umsshop.test", DeviceInfo: "test-agent"}

type deps struct {
	repo     *mocks.MockCategoryRepository
	cache    *mocks.MockCategoryCache
	images   *mocks.MockImageStorage
	recorder *mocks.MockRecorder
}

func newDeps() deps {
	return deps{
		repo:     new(mocks.MockCategoryRepository),
		cache:    new(mocks.MockCategoryCache),
		images:   new(mocks.MockImageStorage),
		recorder: new(mocks.MockRecorder),
	}
}

func (d deps) service(policy entity.DeletePolicy) *CatalogService {
	return NewCatalogService(d.repo, d.cache, d.images, d.recorder, Options{DeletePolicy: policy})
}

func inactive() *entity.CategoryStatus {
	s := entity.StatusInactive
	return &s
}

func strPtr(s string) *string { return &s }

// ==================== Create ====================

func TestCatalogService_CreateCategory_Main(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()

	d.repo.On("FindByName", ctx, entity.LevelMain, "Health").Return([]entity.Category{}, nil)
	d.repo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryCreate, mock.Anything).Return()

	req := &entity.CreateCategoryRequest{Type: "main", Name: " Health "}

	// Act
	category, err := d.service(entity.DeletePolicyOrphan).CreateCategory(ctx, testActor, req, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Health", category.Name)
	assert.Equal(t, entity.LevelMain, category.Level)
	assert.Equal(t, entity.StatusActive, category.Status)
	assert.Equal(t, entity.DefaultSortOrder, category.Order)
	assert.Len(t, category.ID, 36)

	d.repo.AssertExpectations(t)
	d.cache.AssertExpectations(t)
	d.recorder.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_DuplicateNameWritesNothing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()

	existing := []entity.Category{{ID: "other-main-sub1-aaaaaaaa", Level: entity.LevelSub1, Name: "Widget"}}
	d.repo.On("FindByName", ctx, entity.LevelSub1, "Widget").Return(existing, nil)

	req := &entity.CreateCategoryRequest{Type: "surve1", Name: "Widget", MainCategoryID: "main-2"}

	// Act
	category, err := d.service(entity.DeletePolicyOrphan).CreateCategory(ctx, testActor, req, nil)

	// Assert - имя уникально на уровне, а не внутри родителя
	assert.Nil(t, category)
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
	d.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_CreateCategory_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		req  entity.CreateCategoryRequest
	}{
		{"unknown type", entity.CreateCategoryRequest{Type: "sub3", Name: "X"}},
		{"main without name", entity.CreateCategoryRequest{Type: "main", Name: "  "}},
		{"sub1 without parent", entity.CreateCategoryRequest{Type: "sub1", Name: "Vitamins"}},
		{"sub2 without parent", entity.CreateCategoryRequest{Type: "sub2", Name: "C", Code: "VC"}},
		{"sub2 without code", entity.CreateCategoryRequest{Type: "sub2", Name: "C", SubCategory1ID: "m-sub1-1"}},
		{"bad status", entity.CreateCategoryRequest{Type: "main", Name: "X", Status: "Hidden"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			d := newDeps()

			// Act
			_, err := d.service(entity.DeletePolicyOrphan).CreateCategory(context.Background(), testActor, &tt.req, nil)

			// Assert
			assert.ErrorIs(t, err, ErrInvalidCategory)
			d.repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_CreateCategory_ImageOnlyForMain(t *testing.T) {
	// Arrange
	d := newDeps()
	req := &entity.CreateCategoryRequest{Type: "sub1", Name: "Vitamins", MainCategoryID: "main-1"}
	image := &entity.CategoryImage{Filename: "v.png", Body: strings.NewReader("png")}

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).CreateCategory(context.Background(), testActor, req, image)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidCategory)
	d.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_CreateCategory_UploadsImage(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	image := &entity.CategoryImage{Filename: "../../health.png", ContentType: "image/png", Body: strings.NewReader("png")}

	d.repo.On("FindByName", ctx, entity.LevelMain, "Health").Return(nil, nil)
	d.images.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "categories/") && strings.HasSuffix(key, "/health.png")
	}), *image).Return("https://cdn.test/categories/x/health.png", nil)
	d.repo.On("Create", ctx, mock.MatchedBy(func(c *entity.Category) bool {
		return c.ImageURL == "https://cdn.test/categories/x/health.png"
	})).Return(nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryCreate, mock.Anything).Return()

	req := &entity.CreateCategoryRequest{Type: "main", Name: "Health"}

	// Act
	category, err := d.service(entity.DeletePolicyOrphan).CreateCategory(ctx, testActor, req, image)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/categories/x/health.png", category.ImageURL)
	d.images.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_CacheErrorIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()

	d.repo.On("FindByName", ctx, entity.LevelMain, "Health").Return(nil, nil)
	d.repo.On("Create", ctx, mock.Anything).Return(nil)
	d.cache.On("Invalidate", ctx).Return(errors.New("redis error"))
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryCreate, mock.Anything).Return()

	// Act
	category, err := d.service(entity.DeletePolicyOrphan).CreateCategory(ctx, testActor,
		&entity.CreateCategoryRequest{Type: "main", Name: "Health"}, nil)

	// Assert - ошибка кеша не должна прерывать выполнение
	require.NoError(t, err)
	assert.NotNil(t, category)
}

func TestCatalogService_CreateCategory_Sub2RoundTrip(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	parent := "main-1-sub1-0a1b2c3d"

	var stored *entity.Category
	d.repo.On("FindByName", ctx, entity.LevelSub2, "Vitamin C").Return(nil, nil)
	d.repo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.Category) }).
		Return(nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryCreate, mock.Anything).Return()

	svc := d.service(entity.DeletePolicyOrphan)
	req := &entity.CreateCategoryRequest{Type: "surve2", Name: "Vitamin C", Code: "VC", SubCategory1ID: parent}

	// Act
	created, err := svc.CreateCategory(ctx, testActor, req, nil)
	require.NoError(t, err)

	d.repo.On("GetByRef", ctx, entity.CategoryRef{Level: entity.LevelSub2, ID: created.ID}).Return(stored, nil)
	got, err := svc.LookupCategory(ctx, created.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, parent, got.ParentID)
	assert.Equal(t, entity.LevelSub2, entity.InferLevel(got.ID))
	assert.Regexp(t, `^`+parent+`-sub2-[0-9a-f]{8}$`, got.ID)
}

// ==================== List ====================

func TestCatalogService_ListCategories_CacheHit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	cached := []entity.CategorySummary{{CategoryID: "m1", Name: "Health", ChildCount: 2}}

	d.cache.On("Generation", ctx).Return(int64(3), nil)
	d.cache.On("GetListing", ctx, util.ListingKey(3, entity.LevelMain, "")).Return(cached, nil)

	// Act
	result, err := d.service(entity.DeletePolicyOrphan).ListCategories(ctx, entity.LevelMain, "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cached, result)
	d.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCatalogService_ListCategories_CacheMissCountsChildren(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	key := util.ListingKey(0, entity.LevelMain, "")

	d.cache.On("Generation", ctx).Return(int64(0), nil)
	d.cache.On("GetListing", ctx, key).Return(nil, nil)
	d.repo.On("List", ctx, entity.LevelMain).Return([]entity.Category{
		{ID: "m2", Name: "Tools", Order: 9999},
		{ID: "m1", Name: "Health", Order: 1},
		{ID: "m3", Name: "Deck", Order: 9999},
	}, nil)
	d.repo.On("List", ctx, entity.LevelSub1).Return([]entity.Category{
		{ID: "m1-sub1-a", ParentID: "m1"},
		{ID: "m1-sub1-b", ParentID: "m1"},
		{ID: "m2-sub1-c", ParentID: "m2"},
	}, nil)
	d.cache.On("SetListing", ctx, key, mock.Anything).Return(nil)

	// Act
	result, err := d.service(entity.DeletePolicyOrphan).ListCategories(ctx, entity.LevelMain, "")

	// Assert - сортировка по (order, name)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "m1", result[0].CategoryID)
	assert.Equal(t, 2, result[0].ChildCount)
	assert.Equal(t, "m3", result[1].CategoryID)
	assert.Equal(t, 0, result[1].ChildCount)
	assert.Equal(t, "m2", result[2].CategoryID)
	assert.Equal(t, 1, result[2].ChildCount)
	d.cache.AssertExpectations(t)
}

func TestCatalogService_ListCategories_ByParentIndexNotReady(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()

	d.cache.On("Generation", ctx).Return(int64(1), nil)
	d.cache.On("GetListing", ctx, util.ListingKey(1, entity.LevelSub1, "m1")).Return(nil, errors.New("redis down"))
	d.repo.On("ListByParent", ctx, entity.LevelSub1, "m1").Return(nil, dynamo.ErrIndexUnavailable)

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).ListCategories(ctx, entity.LevelSub1, "m1")

	// Assert
	assert.ErrorIs(t, err, ErrIndexUnavailable)
}

func TestCatalogService_ListCategories_NoGenerationSkipsCache(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()

	d.cache.On("Generation", ctx).Return(int64(0), errors.New("redis down"))
	d.repo.On("List", ctx, entity.LevelSub2).Return([]entity.Category{{ID: "s2", Name: "Zinc"}}, nil)

	// Act
	result, err := d.service(entity.DeletePolicyOrphan).ListCategories(ctx, entity.LevelSub2, "")

	// Assert - без поколения нельзя отличить свежий снимок от устаревшего
	require.NoError(t, err)
	assert.Len(t, result, 1)
	d.cache.AssertNotCalled(t, "GetListing", mock.Anything, mock.Anything)
	d.cache.AssertNotCalled(t, "SetListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_ListCategories_MainWithParentRejected(t *testing.T) {
	d := newDeps()

	_, err := d.service(entity.DeletePolicyOrphan).ListCategories(context.Background(), entity.LevelMain, "x")

	assert.ErrorIs(t, err, ErrInvalidCategory)
}

// ==================== Update ====================

func TestCatalogService_UpdateCategory_IdempotentStatus(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelMain, ID: "m1"}
	patch := entity.CategoryPatch{Status: inactive()}
	updated := &entity.Category{ID: "m1", Level: entity.LevelMain, Name: "Health", Status: entity.StatusInactive}

	d.repo.On("Update", ctx, ref, patch).Return(updated, nil).Twice()
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryUpdate, mock.Anything).Return()

	svc := d.service(entity.DeletePolicyOrphan)

	// Act
	first, err1 := svc.UpdateCategory(ctx, testActor, ref, patch)
	second, err2 := svc.UpdateCategory(ctx, testActor, ref, patch)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	d.repo.AssertNumberOfCalls(t, "Update", 2)
}

func TestCatalogService_UpdateCategory_EmptyPatch(t *testing.T) {
	d := newDeps()

	_, err := d.service(entity.DeletePolicyOrphan).UpdateCategory(context.Background(), testActor,
		entity.CategoryRef{Level: entity.LevelMain, ID: "m1"}, entity.CategoryPatch{})

	assert.ErrorIs(t, err, ErrInvalidCategory)
	d.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateCategory_RenameToDuplicate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelSub1, ID: "m1-sub1-a"}

	d.repo.On("FindByName", ctx, entity.LevelSub1, "Widget").
		Return([]entity.Category{{ID: "m2-sub1-b", Name: "Widget"}}, nil)

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).UpdateCategory(ctx, testActor, ref,
		entity.CategoryPatch{Name: strPtr("Widget")})

	// Assert
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)
	d.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateCategory_RenameKeepsOwnName(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelSub1, ID: "m1-sub1-a"}
	patch := entity.CategoryPatch{Name: strPtr("Widget")}

	d.repo.On("FindByName", ctx, entity.LevelSub1, "Widget").
		Return([]entity.Category{{ID: "m1-sub1-a", Name: "Widget"}}, nil)
	d.repo.On("Update", ctx, ref, patch).Return(&entity.Category{ID: "m1-sub1-a", Name: "Widget"}, nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryUpdate, mock.Anything).Return()

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).UpdateCategory(ctx, testActor, ref, patch)

	// Assert
	require.NoError(t, err)
}

func TestCatalogService_UpdateCategory_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelMain, ID: "missing"}
	patch := entity.CategoryPatch{Status: inactive()}

	d.repo.On("Update", ctx, ref, patch).Return(nil, repository.ErrCategoryNotFound)

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).UpdateCategory(ctx, testActor, ref, patch)

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

// ==================== Delete ====================

func TestCatalogService_DeleteCategory_OrphanKeepsChildren(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	health := entity.CategoryRef{Level: entity.LevelMain, ID: "health-id"}
	vitamins := &entity.Category{ID: "health-id-sub1-1a2b3c4d", Level: entity.LevelSub1, Name: "Vitamins", ParentID: "health-id"}

	d.repo.On("Delete", ctx, health).Return(nil)
	d.repo.On("GetByRef", ctx, vitamins.Ref()).Return(vitamins, nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryDelete, mock.Anything).Return()

	svc := d.service(entity.DeletePolicyOrphan)

	// Act
	removed, err := svc.DeleteCategory(ctx, testActor, health)
	require.NoError(t, err)
	got, getErr := svc.LookupCategory(ctx, vitamins.ID)

	// Assert - дочерний узел остался
	assert.Equal(t, 0, removed)
	require.NoError(t, getErr)
	assert.Equal(t, "health-id", got.ParentID)
	d.repo.AssertNotCalled(t, "ListByParent", mock.Anything, mock.Anything, mock.Anything)
	d.repo.AssertNotCalled(t, "DeleteMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_OrphanNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelMain, ID: "missing"}

	d.repo.On("Delete", ctx, ref).Return(repository.ErrCategoryNotFound)

	// Act
	_, err := d.service(entity.DeletePolicyOrphan).DeleteCategory(ctx, testActor, ref)

	// Assert
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	d.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_BlockWithChildren(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelMain, ID: "m1"}

	d.repo.On("GetByRef", ctx, ref).Return(&entity.Category{ID: "m1", Level: entity.LevelMain}, nil)
	d.repo.On("ListByParent", ctx, entity.LevelSub1, "m1").Return([]entity.Category{{ID: "m1-sub1-a"}}, nil)

	// Act
	_, err := d.service(entity.DeletePolicyBlock).DeleteCategory(ctx, testActor, ref)

	// Assert
	assert.ErrorIs(t, err, ErrCategoryHasChildren)
	d.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_BlockLeafSub2(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelSub2, ID: "m1-sub1-a-sub2-b"}

	d.repo.On("GetByRef", ctx, ref).Return(&entity.Category{ID: ref.ID, Level: entity.LevelSub2}, nil)
	d.repo.On("Delete", ctx, ref).Return(nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryDelete, mock.Anything).Return()

	// Act
	_, err := d.service(entity.DeletePolicyBlock).DeleteCategory(ctx, testActor, ref)

	// Assert
	require.NoError(t, err)
	d.repo.AssertNotCalled(t, "ListByParent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_CascadeRemovesSubtree(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelMain, ID: "m1"}

	d.repo.On("GetByRef", ctx, ref).Return(&entity.Category{ID: "m1", Level: entity.LevelMain}, nil)
	d.repo.On("ListByParent", ctx, entity.LevelSub1, "m1").Return([]entity.Category{
		{ID: "m1-sub1-a", Level: entity.LevelSub1, ParentID: "m1"},
		{ID: "m1-sub1-b", Level: entity.LevelSub1, ParentID: "m1"},
	}, nil)
	d.repo.On("ListByParent", ctx, entity.LevelSub2, "m1-sub1-a").Return([]entity.Category{
		{ID: "m1-sub1-a-sub2-x", Level: entity.LevelSub2},
		{ID: "m1-sub1-a-sub2-y", Level: entity.LevelSub2},
	}, nil)
	d.repo.On("ListByParent", ctx, entity.LevelSub2, "m1-sub1-b").Return([]entity.Category{}, nil)
	d.repo.On("DeleteMany", ctx, entity.LevelSub2, []string{"m1-sub1-a-sub2-x", "m1-sub1-a-sub2-y"}).Return(nil)
	d.repo.On("DeleteMany", ctx, entity.LevelSub2, []string{}).Return(nil)
	d.repo.On("DeleteMany", ctx, entity.LevelSub1, []string{"m1-sub1-a", "m1-sub1-b"}).Return(nil)
	d.repo.On("Delete", ctx, ref).Return(nil)
	d.cache.On("Invalidate", ctx).Return(nil)
	d.recorder.On("Record", ctx, testActor, audit.ActionCategoryDelete, mock.Anything).Return()

	// Act
	removed, err := d.service(entity.DeletePolicyCascade).DeleteCategory(ctx, testActor, ref)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
	d.repo.AssertExpectations(t)
}

func TestCatalogService_DeleteCategory_CascadeStopsOnBatchError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	d := newDeps()
	ref := entity.CategoryRef{Level: entity.LevelSub1, ID: "m1-sub1-a"}

	d.repo.On("GetByRef", ctx, ref).Return(&entity.Category{ID: ref.ID, Level: entity.LevelSub1}, nil)
	d.repo.On("ListByParent", ctx, entity.LevelSub2, ref.ID).Return([]entity.Category{{ID: "x", Level: entity.LevelSub2}}, nil)
	d.repo.On("DeleteMany", ctx, entity.LevelSub2, []string{"x"}).Return(errors.New("throttled"))

	// Act
	_, err := d.service(entity.DeletePolicyCascade).DeleteCategory(ctx, testActor, ref)

	// Assert - родитель не удаляется, пока потомки не удалены
	assert.Error(t, err)
	d.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
