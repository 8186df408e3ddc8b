package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInvalidTransition    = errors.New("transición de estado no permitida")
	ErrNoSubscription       = errors.New("sin suscripción activa")
	ErrMissingPermission    = errors.New("permiso insuficiente")
	ErrDashboardUnavailable = errors.New("no se pudieron cargar los datos del tablero")
	ErrGateway              = errors.New("error de la pasarela de pago")
)
