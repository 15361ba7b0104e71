package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrConfirmationRequired = errors.New("la operación requiere confirmación explícita")
	ErrEmptyCollection      = errors.New("no hay leads para exportar")
	ErrPreviewNotFound      = errors.New("vista previa de importación no encontrada")
)
