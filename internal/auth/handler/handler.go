package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"stellariq/internal/auth/models"
	"stellariq/internal/platform/middleware"
	id "stellariq/pkg/domain"
	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/platform/httputil"
	"stellariq/pkg/requestcontext"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Service is the account API the handler drives.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Profile(ctx context.Context, userID id.UserID) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID id.UserID, req models.UpdateProfileRequest) (*models.PublicUser, error)
	ChangePassword(ctx context.Context, userID id.UserID, req models.ChangePasswordRequest) error
	Logout(ctx context.Context, userID id.UserID) error
	Deactivate(ctx context.Context, userID id.UserID) error
}

// Handler serves /api/auth and /api/users.
type Handler struct {
	logger      *slog.Logger
	auth        Service
	requireAuth func(http.Handler) http.Handler
}

// New creates a Handler. requireAuth guards every route that needs an identity.
func New(auth Service, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		auth:        auth,
		requireAuth: requireAuth,
	}
}

// Register mounts the account routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
		r.Get("/health", h.HandleHealth)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/profile", h.HandleProfile)
			r.Put("/profile", h.HandleUpdateProfile)
			r.Put("/change-password", h.HandleChangePassword)
			r.Post("/logout", h.HandleLogout)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/profile", h.HandleProfile)
		r.Put("/profile", h.HandleUpdateProfile)
		r.Put("/change-password", h.HandleChangePassword)
		r.Delete("/account", h.HandleDeactivate)
		r.Get("/preferences", h.handlePreferencesStub)
		r.Put("/preferences", h.handlePreferencesStub)
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "registration failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "User registered successfully", res)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "login failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Login successful", res)
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	user, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "profile lookup failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "", models.ProfileResult{User: *user})
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		h.writeError(w, r, "profile update failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Profile updated successfully", models.ProfileResult{User: *user})
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.auth.ChangePassword(r.Context(), userID, req); err != nil {
		h.writeError(w, r, "password change failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), userID); err != nil {
		h.writeError(w, r, "logout failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.auth.Deactivate(r.Context(), userID); err != nil {
		h.writeError(w, r, "account deactivation failed", err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Account deactivated successfully", nil)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, http.StatusOK, "Auth service is running", map[string]string{
		"timestamp": requestcontext.Now(r.Context()).UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handlePreferencesStub(w http.ResponseWriter, r *http.Request) {
	_, authenticated := middleware.CurrentUser(r.Context())
	httputil.WriteJSON(w, http.StatusNotImplemented, httputil.Envelope{
		Success: false,
		Message: "Preferences endpoint is not implemented yet",
		Data: map[string]any{
			"endpoint":      r.Method + " " + r.URL.Path,
			"authenticated": authenticated,
		},
	})
}

// userID reads the identity RequireAuth attached. Its absence means the route
// was mounted without the middleware.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	ctx := r.Context()
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return user.ID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	ctx := r.Context()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.logger.WarnContext(ctx, "invalid request body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.InfoContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
