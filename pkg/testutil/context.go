package testutil

import (
	"context"
	"net/http"

	"stellariq/internal/auth/models"
	"stellariq/internal/platform/middleware"
)

// WithUser attaches an authenticated identity to the request, as RequireAuth
// would after a successful token check.
func WithUser(req *http.Request, user models.PublicUser) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), &user))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
