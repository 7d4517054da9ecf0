package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrCategoryHasChildren   = errors.New("category has child categories")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrIndexUnavailable      = errors.New("category index is not ready, retry later")
)
