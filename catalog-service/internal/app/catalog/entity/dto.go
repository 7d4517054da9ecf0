package entity

// CreateCategoryRequest принимается как JSON или multipart/form-data (с файлом image для main)
type CreateCategoryRequest struct {
	Type           string `json:"type" form:"type" validate:"required"`
	Name           string `json:"name" form:"name" validate:"required,max=100"`
	Code           string `json:"code" form:"code" validate:"omitempty,max=50"`
	MainCategoryID string `json:"mainCategoryId" form:"mainCategoryId" validate:"omitempty,max=200"`
	SubCategory1ID string `json:"subCategory1Id" form:"subCategory1Id" validate:"omitempty,max=300"`
	Status         string `json:"status" form:"status" validate:"omitempty,oneof=Active Inactive"`
	Order          *int   `json:"order" form:"order" validate:"omitempty,min=0"`
}

// UpdateCategoryRequest частичное обновление, передаются только изменяемые поля
type UpdateCategoryRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Code   *string `json:"code" validate:"omitempty,max=50"`
	Status *string `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Order  *int    `json:"order" validate:"omitempty,min=0"`
}

// Patch переводит запрос в CategoryPatch
func (r *UpdateCategoryRequest) Patch() CategoryPatch {
	patch := CategoryPatch{
		Name:  r.Name,
		Code:  r.Code,
		Order: r.Order,
	}
	if r.Status != nil {
		status := CategoryStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// ErrorResponse error текст HTTP статуса, message пояснение для человека
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CategoryListResponse struct {
	Level      Level             `json:"level"`
	ParentID   string            `json:"parentId,omitempty"`
	Categories []CategorySummary `json:"categories"`
	Total      int               `json:"total"`
}
