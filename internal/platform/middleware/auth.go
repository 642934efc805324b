package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"stellariq/internal/auth/models"
	jwttoken "stellariq/internal/jwt_token"
	"stellariq/internal/platform/metrics"
	id "stellariq/pkg/domain"
	"stellariq/pkg/platform/httputil"
	"stellariq/pkg/platform/sentinel"
	"stellariq/pkg/requestcontext"
)

// Client-facing rejection messages.
const (
	MsgNoToken      = "Access denied. No token provided."
	MsgTokenExpired = "Token expired. Please login again."
	MsgInvalidToken = "Invalid token."
	MsgUserNotFound = "Invalid token. User not found."
	MsgDeactivated  = "Account is deactivated. Please contact support."
	MsgAuthInternal = "Server error in authentication middleware."
)

// TokenVerifier checks a bearer token and yields the user it was issued to.
type TokenVerifier interface {
	Verify(token string) (id.UserID, error)
}

// UserFinder resolves a token subject to the current account record.
type UserFinder interface {
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
}

type contextKeyUser struct{}

// ContextKeyUser is exported for handler tests that inject an identity directly.
var ContextKeyUser = contextKeyUser{}

// CurrentUser returns the identity attached by RequireAuth or OptionalAuth.
func CurrentUser(ctx context.Context) (*models.PublicUser, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*models.PublicUser)
	return user, ok && user != nil
}

// WithUser attaches an authenticated identity and its ID to ctx.
func WithUser(ctx context.Context, user *models.PublicUser) context.Context {
	ctx = context.WithValue(ctx, ContextKeyUser, user)
	return requestcontext.WithUserID(ctx, user.ID)
}

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(ctx context.Context) id.UserID {
	return requestcontext.UserID(ctx)
}

type rejection struct {
	status  int
	message string
	reason  string
	err     error
}

// RequireAuth rejects the request unless it carries a valid token for an
// existing, active account.
func RequireAuth(tokens TokenVerifier, users UserFinder, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			user, rej := authenticate(ctx, r.Header.Get("Authorization"), tokens, users)
			if rej != nil {
				if m != nil {
					m.IncrementAuthRejection(rej.reason)
				}
				logAttrs := []any{"reason", rej.reason, "request_id", GetRequestID(ctx)}
				if rej.err != nil {
					logAttrs = append(logAttrs, "error", rej.err)
				}
				if rej.status >= http.StatusInternalServerError {
					logger.ErrorContext(ctx, "authentication failed", logAttrs...)
				} else {
					logger.WarnContext(ctx, "unauthorized access", logAttrs...)
				}
				httputil.WriteFailure(w, rej.status, rej.message)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

// OptionalAuth attaches the identity when the request authenticates and
// otherwise passes it through untouched. It never writes a response.
func OptionalAuth(tokens TokenVerifier, users UserFinder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if user := tryAuthenticate(ctx, r.Header.Get("Authorization"), tokens, users, logger); user != nil {
				ctx = WithUser(ctx, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tryAuthenticate(ctx context.Context, header string, tokens TokenVerifier, users UserFinder, logger *slog.Logger) (user *models.PublicUser) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "panic during optional authentication",
				"panic", rec,
				"request_id", GetRequestID(ctx),
			)
			user = nil
		}
	}()
	user, rej := authenticate(ctx, header, tokens, users)
	if rej != nil {
		return nil
	}
	return user
}

// authenticate runs extract, verify and resolve. Exactly one of the results is non-nil.
func authenticate(ctx context.Context, header string, tokens TokenVerifier, users UserFinder) (*models.PublicUser, *rejection) {
	token, ok := bearerToken(header)
	if !ok {
		return nil, &rejection{status: http.StatusUnauthorized, message: MsgNoToken, reason: "missing_token"}
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		if errors.Is(err, jwttoken.ErrTokenExpired) {
			return nil, &rejection{status: http.StatusUnauthorized, message: MsgTokenExpired, reason: "expired", err: err}
		}
		return nil, &rejection{status: http.StatusUnauthorized, message: MsgInvalidToken, reason: "invalid", err: err}
	}

	record, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, &rejection{status: http.StatusUnauthorized, message: MsgUserNotFound, reason: "unknown_user"}
		}
		return nil, &rejection{status: http.StatusInternalServerError, message: MsgAuthInternal, reason: "internal", err: err}
	}
	if !record.IsActive {
		return nil, &rejection{status: http.StatusUnauthorized, message: MsgDeactivated, reason: "deactivated"}
	}

	pub := record.Public()
	return &pub, nil
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
