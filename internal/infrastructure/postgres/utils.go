package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/almacen-obra-api/internal/domain"
	"github.com/jhoicas/almacen-obra-api/internal/domain/entity"
)

// Códigos SQLSTATE usados.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
	codeRaiseException      = "P0001" // RAISE EXCEPTION en los procedimientos
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// mapWriteError traduce errores de escritura a errores de dominio.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrConflict)
	case codeCheckViolation, codeInvalidText:
		return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrInvalidInput)
	case codeRaiseException:
		// regla de negocio del procedimiento (stock insuficiente, ítem inexistente...)
		return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// itemRef arma la referencia desde las tres columnas nullable. Una fila con cero
// o varias columnas llenas queda con el ItemRef inválido y se tolera.
func itemRef(materialID, equipoID, eppID *string) entity.ItemRef {
	ref, _ := entity.NewItemRef(materialID, equipoID, eppID)
	return ref
}

// timeOrZero fecha leída de una columna nula; NULL queda como fecha cero.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
