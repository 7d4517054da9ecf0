package service

import "errors"

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrIndexUnavailable   = errors.New("order index is not ready, retry later")
)
