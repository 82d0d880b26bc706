package server

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
)

// UserIDHeader carries the id of the user a request acts for.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

// UserID returns the user id stored by NewUserInterceptor.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}

// NewUserInterceptor rejects handler calls without a user id and stores it in the context.
// Client calls are passed through.
func NewUserInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}
			userID := strings.TrimSpace(req.Header().Get(UserIDHeader))
			if userID == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("missing "+UserIDHeader+" header"))
			}
			return next(context.WithValue(ctx, userIDKey{}, userID), req)
		}
	}
}
