package testutil

import (
	"net/http"

	id "drainadopt/pkg/domain"
	"drainadopt/pkg/requestcontext"
)

// WithUserID adds an authenticated user ID to the request context, as the
// auth middleware would.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}
