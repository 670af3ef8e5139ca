// Package apperror defines the error taxonomy shared by every lifecycle.
// Callers match with errors.Is against the sentinels or errors.As against
// the typed errors.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrShortage   = errors.New("insufficient inventory")
	ErrConflict   = errors.New("conflict")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func NotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ValidationError struct {
	Field   string
	Message string
}

func Validation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ShortageError carries every shortage found for one validation batch.
type ShortageError struct {
	Resource  model.ResourceKind
	Shortages []model.Shortage
}

func (e *ShortageError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s %d (%s): have %g, need %g", e.Resource, s.ResourceID, s.Label, s.Current, s.Requested))
	}
	return fmt.Sprintf("insufficient %s: %s", e.Resource, strings.Join(parts, "; "))
}

func (e *ShortageError) Is(target error) bool { return target == ErrShortage }

type ConflictKind string

const (
	ConflictDuplicate ConflictKind = "duplicate"
	ConflictDependent ConflictKind = "dependent"
	ConflictState     ConflictKind = "state"
)

type ConflictError struct {
	Kind    ConflictKind
	Message string
	// Existing is the record that caused a duplicate conflict, when known.
	Existing interface{}
}

func Conflict(kind ConflictKind, format string, args ...interface{}) *ConflictError {
	return &ConflictError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// AsShortage unwraps err into a ShortageError.
func AsShortage(err error) (*ShortageError, bool) {
	var se *ShortageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
