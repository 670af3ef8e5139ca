package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fekuna/printfarm-inventory-service/internal/model"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"not found", NotFound("spool", 3), ErrNotFound},
		{"validation", Validation("grams", "must not be negative"), ErrValidation},
		{"shortage", &ShortageError{Resource: model.ResourceSpool}, ErrShortage},
		{"conflict", Conflict(ConflictDependent, "in use"), ErrConflict},
		{"wrapped", fmt.Errorf("row 2: %w", Validation("x", "bad")), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", NotFound("order", 1), codes.NotFound},
		{"validation", Validation("status", "unknown"), codes.InvalidArgument},
		{"shortage", &ShortageError{Resource: model.ResourceHardware, Shortages: []model.Shortage{{ResourceID: 1}}}, codes.FailedPrecondition},
		{"duplicate", Conflict(ConflictDuplicate, "taken"), codes.AlreadyExists},
		{"dependent", Conflict(ConflictDependent, "in use"), codes.FailedPrecondition},
		{"state", Conflict(ConflictState, "already sold"), codes.FailedPrecondition},
		{"unknown", errors.New("disk on fire"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status.Code(ToStatus(tt.err)); got != tt.want {
				t.Errorf("ToStatus() code = %v, want %v", got, tt.want)
			}
		})
	}
	if ToStatus(nil) != nil {
		t.Error("ToStatus(nil) should be nil")
	}
}

func TestToStatusShortageDetails(t *testing.T) {
	err := &ShortageError{Resource: model.ResourceSpool, Shortages: []model.Shortage{
		{ResourceID: 1, Label: "PLA", Current: 10, Requested: 20},
		{ResourceID: 2, Label: "PETG", Current: 5, Requested: 6},
	}}
	st, _ := status.FromError(ToStatus(err))

	var violations int
	for _, d := range st.Details() {
		if pf, ok := d.(*errdetails.PreconditionFailure); ok {
			violations += len(pf.Violations)
			if pf.Violations[0].Subject != "SPOOL:1" {
				t.Errorf("subject = %q", pf.Violations[0].Subject)
			}
		}
	}
	if violations != 2 {
		t.Errorf("violations = %d, want 2", violations)
	}
}

func TestAsShortage(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", &ShortageError{Resource: model.ResourceSpool})
	if se, ok := AsShortage(wrapped); !ok || se.Resource != model.ResourceSpool {
		t.Errorf("AsShortage() = %v, %v", se, ok)
	}
	if _, ok := AsShortage(errors.New("x")); ok {
		t.Error("AsShortage() matched a plain error")
	}
}
