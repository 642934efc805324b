package service

import (
	"context"
	"errors"

	"stellariq/internal/auth/models"
	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/platform/sentinel"
	"stellariq/pkg/requestcontext"
)

const dummyPassword = "stellariq-timing-equalizer"

// Login authenticates an active user and issues a fresh token. Unknown email,
// deactivated account and wrong password all produce the same error.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkLockout(ctx, req.Email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		// burn the same bcrypt work as a real comparison
		s.hasher.Verify(req.Password, s.timingDigest())
		return nil, s.loginFailed(ctx, req.Email, "unknown_email")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, s.loginFailed(ctx, req.Email, "wrong_password")
	}
	if !user.IsActive {
		return nil, s.loginFailed(ctx, req.Email, "inactive_account")
	}

	if s.attempts != nil {
		if err := s.attempts.Clear(ctx, req.Email); err != nil {
			s.logger.WarnContext(ctx, "failed to clear login failures",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}

	updated := recordLogin(*user, requestcontext.Now(ctx))
	if err := s.users.Save(ctx, &updated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login")
	}

	if s.metrics != nil {
		s.metrics.ObserveLogin("success")
	}
	return s.issueResult(ctx, &updated)
}

// checkLockout refuses the attempt when the email has too many recent failures.
// Limiter outages do not block logins.
func (s *Service) checkLockout(ctx context.Context, email string) error {
	if s.attempts == nil {
		return nil
	}
	failures, err := s.attempts.Failures(ctx, email)
	if err != nil {
		s.logger.WarnContext(ctx, "login limiter unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	if failures >= s.maxAttempts {
		if s.metrics != nil {
			s.metrics.ObserveLogin("locked")
		}
		return dErrors.New(dErrors.CodeTooManyRequests, MsgTooManyAttempts)
	}
	return nil
}

// loginFailed records the failure and returns the generic credentials error.
// reason is logged only; it never reaches the client.
func (s *Service) loginFailed(ctx context.Context, email, reason string) error {
	if s.attempts != nil {
		if _, err := s.attempts.RecordFailure(ctx, email, s.lockoutWindow); err != nil {
			s.logger.WarnContext(ctx, "failed to record login failure",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveLogin("invalid_credentials")
	}
	s.logger.InfoContext(ctx, "login rejected",
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeInvalidCredentials, MsgInvalidCredentials)
}

func (s *Service) timingDigest() string {
	s.dummyDigestOnce.Do(func() {
		digest, err := s.hasher.Hash(dummyPassword)
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}
