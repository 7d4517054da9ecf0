package service

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrForbidden        = errors.New("access denied")
)
