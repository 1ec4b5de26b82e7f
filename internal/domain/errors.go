package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrIngestion    = errors.New("no se pudieron cargar los datos de la obra")
	ErrNotLoaded    = errors.New("datos de la obra aún no cargados")
)
