package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"stellariq/internal/auth/models"
	userstore "stellariq/internal/auth/store/user"
	jwttoken "stellariq/internal/jwt_token"
	"stellariq/internal/platform/metrics"
	id "stellariq/pkg/domain"
	"stellariq/pkg/platform/httputil"
	"stellariq/pkg/requestcontext"
)

type failingFinder struct{}

func (failingFinder) FindByID(context.Context, id.UserID) (*models.User, error) {
	return nil, errors.New("connection refused")
}

type panickingFinder struct{}

func (panickingFinder) FindByID(context.Context, id.UserID) (*models.User, error) {
	panic("boom")
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger  *slog.Logger
	metrics *metrics.Metrics
	tokens  *jwttoken.JWTService
	users   *userstore.InMemoryUserStore
	active  *models.User
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())

	tokens, err := jwttoken.NewJWTService("test-signing-key", "stellariq", time.Hour)
	s.Require().NoError(err)
	s.tokens = tokens

	s.users = userstore.New()
	s.active = &models.User{
		ID:        id.NewUserID(),
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		IsActive:  true,
	}
	s.Require().NoError(s.users.Create(context.Background(), s.active))
}

// protected echoes the attached identity so tests can assert on it.
func protected(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	data := map[string]any{"authenticated": ok}
	if ok {
		data["email"] = user.Email
		data["userId"] = GetUserID(r.Context()).String()
	}
	httputil.WriteSuccess(w, http.StatusOK, "", data)
}

func (s *AuthMiddlewareSuite) serveRequired(finder UserFinder, header string) *httptest.ResponseRecorder {
	h := RequireAuth(s.tokens, finder, s.logger, s.metrics)(http.HandlerFunc(protected))
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func (s *AuthMiddlewareSuite) serveOptional(finder UserFinder, header string) map[string]any {
	h := OptionalAuth(s.tokens, finder, s.logger)(http.HandlerFunc(protected))
	req := httptest.NewRequest(http.MethodGet, "/api/careers", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	s.Require().Equal(http.StatusOK, rr.Code)

	var env struct {
		Data map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Data
}

func (s *AuthMiddlewareSuite) assertRejected(rr *httptest.ResponseRecorder, status int, message string) {
	s.Equal(status, rr.Code)
	var env httputil.Envelope
	s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env))
	s.False(env.Success)
	s.Equal(message, env.Message)
}

func (s *AuthMiddlewareSuite) issue(userID id.UserID) string {
	token, err := s.tokens.Issue(userID)
	s.Require().NoError(err)
	return token
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	s.Run("valid token attaches the identity", func() {
		rr := s.serveRequired(s.users, "Bearer "+s.issue(s.active.ID))
		s.Equal(http.StatusOK, rr.Code)
		s.Contains(rr.Body.String(), `"email":"grace@example.com"`)
		s.Contains(rr.Body.String(), s.active.ID.String())
	})

	s.Run("missing header", func() {
		s.assertRejected(s.serveRequired(s.users, ""), http.StatusUnauthorized, MsgNoToken)
	})

	s.Run("wrong scheme", func() {
		s.assertRejected(s.serveRequired(s.users, "Basic "+s.issue(s.active.ID)), http.StatusUnauthorized, MsgNoToken)
	})

	s.Run("empty bearer", func() {
		s.assertRejected(s.serveRequired(s.users, "Bearer "), http.StatusUnauthorized, MsgNoToken)
	})

	s.Run("garbage token", func() {
		s.assertRejected(s.serveRequired(s.users, "Bearer not.a.jwt"), http.StatusUnauthorized, MsgInvalidToken)
	})

	s.Run("extra whitespace around a valid token", func() {
		token := s.issue(s.active.ID)
		s.assertRejected(s.serveRequired(s.users, "Bearer  "+token), http.StatusUnauthorized, MsgInvalidToken)
		s.assertRejected(s.serveRequired(s.users, "Bearer "+token+" "), http.StatusUnauthorized, MsgInvalidToken)
	})

	s.Run("expired token", func() {
		past := time.Now().Add(-2 * time.Hour)
		oldTokens, err := jwttoken.NewJWTService("test-signing-key", "stellariq", time.Hour,
			jwttoken.WithClock(func() time.Time { return past }))
		s.Require().NoError(err)
		token, err := oldTokens.Issue(s.active.ID)
		s.Require().NoError(err)

		s.assertRejected(s.serveRequired(s.users, "Bearer "+token), http.StatusUnauthorized, MsgTokenExpired)
	})

	s.Run("unknown user", func() {
		s.assertRejected(s.serveRequired(s.users, "Bearer "+s.issue(id.NewUserID())), http.StatusUnauthorized, MsgUserNotFound)
	})

	s.Run("deactivated user", func() {
		inactive := &models.User{ID: id.NewUserID(), Email: "off@example.com", IsActive: false}
		s.Require().NoError(s.users.Create(context.Background(), inactive))

		s.assertRejected(s.serveRequired(s.users, "Bearer "+s.issue(inactive.ID)), http.StatusUnauthorized, MsgDeactivated)
	})

	s.Run("store failure", func() {
		s.assertRejected(s.serveRequired(failingFinder{}, "Bearer "+s.issue(s.active.ID)), http.StatusInternalServerError, MsgAuthInternal)
	})

	s.Run("rejections are counted by reason", func() {
		before := promtest.ToFloat64(s.metrics.AuthRejections.WithLabelValues("missing_token"))
		s.serveRequired(s.users, "")
		s.Equal(before+1, promtest.ToFloat64(s.metrics.AuthRejections.WithLabelValues("missing_token")))
	})
}

func (s *AuthMiddlewareSuite) TestOptionalAuth() {
	s.Run("valid token attaches the identity", func() {
		data := s.serveOptional(s.users, "Bearer "+s.issue(s.active.ID))
		s.Equal(true, data["authenticated"])
		s.Equal("grace@example.com", data["email"])
	})

	s.Run("anonymous passes through", func() {
		s.Equal(false, s.serveOptional(s.users, "")["authenticated"])
	})

	s.Run("invalid token passes through", func() {
		s.Equal(false, s.serveOptional(s.users, "Bearer garbage")["authenticated"])
	})

	s.Run("expired token passes through", func() {
		past := time.Now().Add(-2 * time.Hour)
		oldTokens, err := jwttoken.NewJWTService("test-signing-key", "stellariq", time.Hour,
			jwttoken.WithClock(func() time.Time { return past }))
		s.Require().NoError(err)
		token, err := oldTokens.Issue(s.active.ID)
		s.Require().NoError(err)

		s.Equal(false, s.serveOptional(s.users, "Bearer "+token)["authenticated"])
	})

	s.Run("store failure passes through", func() {
		s.Equal(false, s.serveOptional(failingFinder{}, "Bearer "+s.issue(s.active.ID))["authenticated"])
	})

	s.Run("panic during resolution passes through", func() {
		s.Equal(false, s.serveOptional(panickingFinder{}, "Bearer "+s.issue(s.active.ID))["authenticated"])
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer   abc  ", "  abc  ", true},
		{"Bearer  ", " ", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := bearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestWithUser(t *testing.T) {
	user := &models.PublicUser{ID: id.NewUserID(), Email: "a@b.co"}
	ctx := WithUser(context.Background(), user)

	got, ok := CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.ID, requestcontext.UserID(ctx))

	_, ok = CurrentUser(context.Background())
	assert.False(t, ok)
}
