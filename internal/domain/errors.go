package domain

import (
	"errors"
	"fmt"
)

// ValidationError carries field-level detail so a grid client can mark every
// offending input at once.
type ValidationError struct {
	Field   string
	Msg     string
	Details map[string]string
	Err     error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
	Err error
}

func (e UnauthorizedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthorized"
}

func (e UnauthorizedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
	Err error
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

func (e ForbiddenError) Unwrap() error { return e.Err }

// SchemaNotReadyError means tenant scoping was requested against a table that
// has not been migrated to carry the scoping column. Returning unscoped rows
// would cross tenants, so this is fatal for the request.
type SchemaNotReadyError struct {
	Table  string
	Column string
}

func (e SchemaNotReadyError) Error() string {
	return fmt.Sprintf("table %s has no %s column; run the tenancy migration for %s before scoped access",
		e.Table, e.Column, e.Table)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

// ValidationDetails extracts the field map from a validation error, nil when absent.
func ValidationDetails(err error) map[string]string {
	var target ValidationError
	if errors.As(err, &target) {
		return target.Details
	}
	return nil
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsSchemaNotReady(err error) bool {
	var target SchemaNotReadyError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
