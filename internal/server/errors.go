package server

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/export"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

// toConnectError maps service errors to Connect codes. Validation errors carry
// their field violations as errdetails.BadRequest.
func toConnectError(ctx context.Context, procedure string, err error) *connect.Error {
	var validationErr *study.ValidationError
	switch {
	case errors.As(err, &validationErr):
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		fieldViolations := make([]*errdetails.BadRequest_FieldViolation, 0, len(validationErr.Violations))
		for _, v := range validationErr.Violations {
			fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       v.Field,
				Description: v.Message,
			})
		}
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: fieldViolations,
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, study.ErrReviewIndexOutOfRange), errors.Is(err, study.ErrInvalidReviewOffset):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case procedure == MoveTaskProcedure && errors.Is(err, board.ErrTaskNotFound):
		// The task already left the source list, e.g. a repeated move.
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, study.ErrNotFound), errors.Is(err, board.ErrTaskNotFound), errors.Is(err, board.ErrListNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, export.ErrNoEvents):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	slog.Default().ErrorContext(ctx, "request failed",
		"procedure", procedure,
		"user_id", UserID(ctx),
		"error", err)
	return connect.NewError(connect.CodeInternal, err)
}
