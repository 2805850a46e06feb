package models

import "errors"

// Классы ошибок ядра. Конкретные ошибки оборачивают их через fmt.Errorf("...: %w", ErrX)
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInfrastructure = errors.New("infrastructure error")
)
