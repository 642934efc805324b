package service

import (
	"context"
	"time"

	"stellariq/internal/auth/models"
	id "stellariq/pkg/domain"
	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/requestcontext"
)

// Profile returns the sanitized user.
func (s *Service) Profile(ctx context.Context, userID id.UserID) (*models.PublicUser, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

// UpdateProfile applies a partial update. The record is saved only when a
// field actually changed.
func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, req models.UpdateProfileRequest) (*models.PublicUser, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, changed := applyProfileUpdate(*user, req)
	if changed {
		updated.UpdatedAt = requestcontext.Now(ctx)
		if err := s.users.Save(ctx, &updated); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
		}
	}
	pub := updated.Public()
	return &pub, nil
}

// ChangePassword re-hashes and stores newPassword once currentPassword verifies.
// Previously issued tokens stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, userID id.UserID, req models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		return dErrors.New(dErrors.CodeInvalidCredentials, MsgIncorrectPassword)
	}

	digest, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	updated := *user
	updated.PasswordHash = digest
	updated.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Save(ctx, &updated); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to change password")
	}

	s.logger.InfoContext(ctx, "password changed",
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Logout acknowledges a client-side token discard. Tokens are not tracked
// server-side, so nothing is revoked.
func (s *Service) Logout(ctx context.Context, userID id.UserID) error {
	if s.metrics != nil {
		s.metrics.IncrementLogouts()
	}
	s.logger.InfoContext(ctx, "user logged out",
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// Deactivate marks the account inactive. Its tokens are rejected from the next
// request onward.
func (s *Service) Deactivate(ctx context.Context, userID id.UserID) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	updated := *user
	updated.IsActive = false
	updated.UpdatedAt = requestcontext.Now(ctx)
	if err := s.users.Save(ctx, &updated); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate account")
	}

	s.logger.InfoContext(ctx, "account deactivated",
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func recordLogin(user models.User, now time.Time) models.User {
	user.LastLoginAt = &now
	return user
}

// applyProfileUpdate returns the user with every non-nil field of req applied
// and whether anything differed.
func applyProfileUpdate(user models.User, req models.UpdateProfileRequest) (models.User, bool) {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&user.FirstName, req.FirstName)
	set(&user.LastName, req.LastName)
	set(&user.Bio, req.Bio)
	set(&user.Location, req.Location)
	set(&user.CurrentRole, req.CurrentRole)
	set(&user.CurrentCompany, req.CurrentCompany)
	return user, changed
}
