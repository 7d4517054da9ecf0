package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrManagerNotFound      = errors.New("manager not found")
	ErrManagerExists        = errors.New("manager with this email already exists")
)
