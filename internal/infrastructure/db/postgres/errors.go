package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isDuplicate(err error) bool  { return pgCode(err) == codeUniqueViolation }
func isForeignKey(err error) bool { return pgCode(err) == codeForeignKeyViolation }
func isNoRows(err error) bool     { return errors.Is(err, pgx.ErrNoRows) }

// storageErr wraps a driver failure as an opaque domain.StorageError. Malformed
// identifiers rejected by the server are reported as not found instead.
func storageErr(op string, err error) error {
	if pgCode(err) == codeInvalidText {
		return domain.ErrNotFound
	}
	return &domain.StorageError{Op: op, Err: err}
}

// validID reports whether id can be bound to a UUID column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
