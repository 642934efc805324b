package service

import (
	"context"
	"errors"
	"time"

	"stellariq/internal/auth/models"
	id "stellariq/pkg/domain"
	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/platform/sentinel"
	"stellariq/pkg/requestcontext"
)

// Register creates an active account and returns it with a fresh token.
// This is the only path that creates users.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeDuplicate, MsgDuplicateEmail)
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := newUser(req, digest, requestcontext.Now(ctx))
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration won the race for this email
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicate, MsgDuplicateEmail)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if s.metrics != nil {
		s.metrics.IncrementUsersRegistered()
	}
	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	return s.issueResult(ctx, user)
}

func newUser(req models.RegisterRequest, digest string, now time.Time) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: digest,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
