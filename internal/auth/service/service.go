package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stellariq/internal/auth/models"
	"stellariq/internal/platform/metrics"
	id "stellariq/pkg/domain"
	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/platform/sentinel"
	"stellariq/pkg/requestcontext"
)

// Client-facing messages. Login deliberately uses one message for every
// credential failure so responses cannot be used to enumerate accounts.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgDuplicateEmail     = "User with this email already exists"
	MsgIncorrectPassword  = "Current password is incorrect"
	MsgTooManyAttempts    = "Too many failed login attempts. Please try again later."
	MsgUserNotFound       = "User not found"
)

// UserStore is the credential store capability the service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Issue(userID id.UserID) (string, error)
}

// AttemptStore counts failed logins per email.
type AttemptStore interface {
	Failures(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	Clear(ctx context.Context, key string) error
}

// Service orchestrates registration, login and account changes against the
// user store, the password hasher and the token issuer.
type Service struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	logger  *slog.Logger
	metrics *metrics.Metrics

	attempts        AttemptStore
	maxAttempts     int
	lockoutWindow   time.Duration
	dummyDigest     string
	dummyDigestOnce sync.Once
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLoginLimiter rejects logins for an email after maxAttempts failures
// within window. A nil store or non-positive maxAttempts disables limiting.
func WithLoginLimiter(store AttemptStore, maxAttempts int, window time.Duration) Option {
	return func(s *Service) {
		if store == nil || maxAttempts <= 0 || window <= 0 {
			return
		}
		s.attempts = store
		s.maxAttempts = maxAttempts
		s.lockoutWindow = window
	}
}

func New(users UserStore, hasher PasswordHasher, tokens TokenIssuer, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	s := &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// loadUser fetches a user by ID and translates store errors.
func (s *Service) loadUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, MsgUserNotFound)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func (s *Service) issueResult(ctx context.Context, user *models.User) (*models.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to issue token",
			"user_id", user.ID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &models.AuthResult{User: user.Public(), Token: token}, nil
}
