package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del modelo de presupuestos. Se comparan con errors.Is.
var (
	ErrInvalidArgument   = errors.New("argumento inválido")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrImmutableState    = errors.New("el presupuesto no admite cambios en su estado actual")
	ErrEmptyQuote        = errors.New("el presupuesto no tiene líneas")
	ErrChecksumMismatch  = errors.New("dígito verificador inválido")
)

// ErrInvalidInput se conserva para los casos de uso que validan DTOs.
var ErrInvalidInput = ErrInvalidArgument

// ValidationError identifica el campo que no pasó la validación.
type ValidationError struct {
	Field  string
	Reason string
	Kind   error // ErrInvalidArgument o ErrChecksumMismatch
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	if e.Kind == nil {
		return ErrInvalidArgument
	}
	return e.Kind
}

// NewValidationError construye un ValidationError de tipo ErrInvalidArgument.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Kind: ErrInvalidArgument}
}

// TransitionError describe un cambio de estado rechazado.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: de %s a %s", ErrInvalidTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
