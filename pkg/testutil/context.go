package testutil

import (
	"net/http"

	id "homeward/pkg/domain"
	"homeward/pkg/requestcontext"
)

// WithIdentity adds an authenticated user ID and role to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// An invalid user ID string is silently ignored.
func WithIdentity(req *http.Request, userID string, role id.Role) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if role != "" {
		ctx = requestcontext.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
