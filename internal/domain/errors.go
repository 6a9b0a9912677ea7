package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidTransition = errors.New("transición no permitida en el estado actual")
	ErrIdentityAssigned  = errors.New("el folio de la cotización ya fue asignado")
	ErrMissingNameParts  = errors.New("el usuario asignado no tiene nombre y apellido")
)

// LineError detalla el problema de una línea en una reconstrucción de partidas.
type LineError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError agrupa fallas de validación por campo o por línea. Nada se
// persiste cuando ocurre: la operación completa se rechaza antes de escribir.
type ValidationError struct {
	Message string
	Lines   []LineError
}

// Error implementa error.
func (e *ValidationError) Error() string {
	if len(e.Lines) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Lines))
	for _, le := range e.Lines {
		parts = append(parts, fmt.Sprintf("línea %d, %s: %s", le.Index, le.Field, le.Reason))
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye el error con mensaje general.
func NewValidationError(message string, lines ...LineError) *ValidationError {
	return &ValidationError{Message: message, Lines: lines}
}
