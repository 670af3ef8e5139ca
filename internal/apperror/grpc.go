package apperror

import (
	"errors"
	"fmt"

	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus translates a domain error into a gRPC status. Shortages carry one
// PreconditionFailure violation per resource.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	var (
		nf *NotFoundError
		ve *ValidationError
		se *ShortageError
		ce *ConflictError
	)

	switch {
	case errors.As(err, &nf):
		return status.Error(codes.NotFound, nf.Error())

	case errors.As(err, &ve):
		st := status.New(codes.InvalidArgument, ve.Error())
		detailed, derr := st.WithDetails(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{Field: ve.Field, Description: ve.Message},
			},
		})
		if derr != nil {
			return st.Err()
		}
		return detailed.Err()

	case errors.As(err, &se):
		st := status.New(codes.FailedPrecondition, se.Error())
		pf := &errdetails.PreconditionFailure{}
		for _, s := range se.Shortages {
			pf.Violations = append(pf.Violations, &errdetails.PreconditionFailure_Violation{
				Type:    "INSUFFICIENT_" + string(se.Resource),
				Subject: fmt.Sprintf("%s:%d", se.Resource, s.ResourceID),
				Description: fmt.Sprintf("current=%g requested=%g resulting=%g shortage=%g within_reserve=%t",
					s.Current, s.Requested, s.Resulting, s.ShortageAmount, s.WithinReserve),
			})
		}
		detailed, derr := st.WithDetails(pf)
		if derr != nil {
			return st.Err()
		}
		return detailed.Err()

	case errors.As(err, &ce):
		if ce.Kind == ConflictDuplicate {
			return status.Error(codes.AlreadyExists, ce.Error())
		}
		return status.Error(codes.FailedPrecondition, ce.Error())
	}

	return status.Error(codes.Internal, "internal error")
}

// Respond converts err for a handler return. Errors that map to Internal are
// logged first because their message is not sent to the client.
func Respond(log logger.ZapLogger, method string, err error) error {
	st := ToStatus(err)
	if status.Code(st) == codes.Internal {
		log.Error("request failed", zap.String("method", method), zap.Error(err))
	}
	return st
}
