package store

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Kind is the integrity class of a driver error.
type Kind int

const (
	KindUnknown Kind = iota
	KindUniqueViolation
	KindForeignKeyViolation
	KindCheckViolation
	KindInvalidIdentifier
	KindNotNullViolation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUniqueViolation:
		return "unique_violation"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindCheckViolation:
		return "check_violation"
	case KindInvalidIdentifier:
		return "invalid_identifier"
	case KindNotNullViolation:
		return "not_null_violation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
)

// Classify inspects the structured error codes exposed by pgx, lib/pq and go-sqlite3.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindFromSQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return kindFromSQLState(string(pqErr.Code))
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return KindUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return KindForeignKeyViolation
		case sqlite3.ErrConstraintCheck:
			return KindCheckViolation
		case sqlite3.ErrConstraintNotNull:
			return KindNotNullViolation
		}
	}

	return KindUnknown
}

func kindFromSQLState(code string) Kind {
	switch code {
	case pgUniqueViolation:
		return KindUniqueViolation
	case pgForeignKeyViolation:
		return KindForeignKeyViolation
	case pgCheckViolation:
		return KindCheckViolation
	case pgNotNullViolation:
		return KindNotNullViolation
	case pgInvalidText:
		return KindInvalidIdentifier
	default:
		return KindUnknown
	}
}

// Translate turns a driver error into a categorized error. Integrity failures become
// client errors, everything else stays internal. The message is what callers see.
func Translate(err error, message string) error {
	if err == nil {
		return nil
	}

	switch kind := Classify(err); kind {
	case KindUniqueViolation:
		return goerrors.Wrap(err, goerrors.CategoryConflict, message+": already exists").WithTextCode(apperr.CodeUnique)
	case KindForeignKeyViolation:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, message+": referenced record does not exist").WithTextCode(apperr.CodeForeignKey)
	case KindCheckViolation:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, message+": constraint violated").WithTextCode(apperr.CodeCheck)
	case KindNotNullViolation:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, message+": missing required value").WithTextCode(apperr.CodeNotNull)
	case KindInvalidIdentifier:
		return goerrors.Wrap(err, goerrors.CategoryBadInput, message+": invalid identifier").WithTextCode(apperr.CodeInvalidIdentifier)
	case KindNotFound:
		return goerrors.Wrap(err, goerrors.CategoryNotFound, message+": not found").WithTextCode(apperr.CodeNotFound)
	default:
		var categorized *goerrors.Error
		if errors.As(err, &categorized) {
			return err
		}
		return apperr.Internal(err, message)
	}
}
