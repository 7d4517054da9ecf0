package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/catalog-service/internal/app/catalog/service"
	"umsshop/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxImageSize предел multipart формы с изображением категории
const maxImageSize = 10 << 20

// CatalogHandler обрабатывает HTTP запросы для иерархии категорий
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// ListCategories обрабатывает GET /categories/:level?parentId=
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	level, err := entity.ParseLevel(c.Param("level"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid category level", err)
		return
	}
	parentID := c.Query("parentId")

	categories, err := h.catalogService.ListCategories(c.Request.Context(), level, parentID)
	if err != nil {
		h.respondServiceError(c, err, "Failed to list categories")
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Level:      level,
		ParentID:   parentID,
		Categories: categories,
		Total:      len(categories),
	})
}

// GetCategory обрабатывает GET /categories/:level/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	ref, ok := refFromPath(c)
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), ref)
	if err != nil {
		h.respondServiceError(c, err, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// LookupCategory обрабатывает GET /category-lookup/:id для ссылок без уровня
func (h *CatalogHandler) LookupCategory(c *gin.Context) {
	category, err := h.catalogService.LookupCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err, "Failed to get category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory обрабатывает POST /categories
// Принимает JSON или multipart/form-data с необязательным файлом image
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	var image *entity.CategoryImage

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize)
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid form data", err)
			return
		}

		fileHeader, err := c.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			respondError(c, http.StatusBadRequest, "Invalid image", err)
			return
		default:
			file, err := fileHeader.Open()
			if err != nil {
				respondError(c, http.StatusBadRequest, "Invalid image", err)
				return
			}
			defer file.Close()

			image = &entity.CategoryImage{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err), nil)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), actorFromContext(c), &req, image)
	if err != nil {
		h.respondServiceError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory обрабатывает PATCH /categories/:level/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	ref, ok := refFromPath(c)
	if !ok {
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err), nil)
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), actorFromContext(c), ref, req.Patch())
	if err != nil {
		h.respondServiceError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory обрабатывает DELETE /categories/:level/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	ref, ok := refFromPath(c)
	if !ok {
		return
	}

	removed, err := h.catalogService.DeleteCategory(c.Request.Context(), actorFromContext(c), ref)
	if err != nil {
		h.respondServiceError(c, err, "Failed to delete category")
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Category deleted",
		Data:    gin.H{"ref": ref, "descendantsDeleted": removed},
	})
}

func refFromPath(c *gin.Context) (entity.CategoryRef, bool) {
	level, err := entity.ParseLevel(c.Param("level"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid category level", err)
		return entity.CategoryRef{}, false
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, "Category ID is required", nil)
		return entity.CategoryRef{}, false
	}

	return entity.CategoryRef{Level: level, ID: id}, true
}

// respondServiceError переводит ошибки сервиса в HTTP статусы
func (h *CatalogHandler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidCategory):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "Category not found", nil)
	case errors.Is(err, service.ErrCategoryAlreadyExists):
		respondError(c, http.StatusConflict, "Category with this name already exists", nil)
	case errors.Is(err, service.ErrCategoryHasChildren):
		respondError(c, http.StatusConflict, "Category has child categories", nil)
	case errors.Is(err, service.ErrIndexUnavailable):
		c.Header("Retry-After", "30")
		respondError(c, http.StatusServiceUnavailable, "Category index is not ready, retry later", nil)
	default:
		logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg(fallback)
		respondError(c, http.StatusInternalServerError, fallback, err)
	}
}

// respondError тело ошибки {error, message}
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		message += ": " + err.Error()
	}
	c.JSON(status, errorBody(status, message))
}

func errorBody(status int, message string) entity.ErrorResponse {
	return entity.ErrorResponse{Error: http.StatusText(status), Message: message}
}

// formatValidationError форматирует ошибки валидации в читаемый вид
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}

	return strings.Join(messages, "; ")
}
