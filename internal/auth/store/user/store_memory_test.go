package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"stellariq/internal/auth/models"
	id "stellariq/pkg/domain"
	"stellariq/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newUser(email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id.NewUserID(),
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "digest",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	ctx := context.Background()

	s.Run("returns user by ID when exists", func() {
		user := newUser("jane.doe@example.com")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("returns user by email when exists", func() {
		user := newUser("email.lookup@example.com")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByEmail(ctx, user.Email)
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("returns ErrNotFound when user ID does not exist", func() {
		_, err := s.store.FindByID(ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestCreateRejectsDuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newUser("dup@example.com")))

	other := newUser("dup@example.com")
	other.FirstName = "Different"
	err := s.store.Create(ctx, other)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryUserStoreSuite) TestSave() {
	ctx := context.Background()

	s.Run("persists changes", func() {
		user := newUser("save@example.com")
		s.Require().NoError(s.store.Create(ctx, user))

		user.IsActive = false
		user.Bio = "updated"
		s.Require().NoError(s.store.Save(ctx, user))

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.False(found.IsActive)
		s.Equal("updated", found.Bio)
	})

	s.Run("returned records are copies", func() {
		user := newUser("copy@example.com")
		s.Require().NoError(s.store.Create(ctx, user))

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		found.IsActive = false

		again, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.True(again.IsActive)
	})

	s.Run("email change re-indexes", func() {
		user := newUser("old@example.com")
		s.Require().NoError(s.store.Create(ctx, user))

		user.Email = "new@example.com"
		s.Require().NoError(s.store.Save(ctx, user))

		_, err := s.store.FindByEmail(ctx, "old@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
		found, err := s.store.FindByEmail(ctx, "new@example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("unknown user returns ErrNotFound", func() {
		err := s.store.Save(ctx, newUser("ghost@example.com"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestConcurrentCreateSameEmail() {
	ctx := context.Background()
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.store.Create(ctx, newUser("race@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, sentinel.ErrConflict)
		}
	}
	s.Equal(1, succeeded)
}
