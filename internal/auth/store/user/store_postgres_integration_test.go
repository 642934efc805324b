//go:build integration

package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "stellariq/pkg/domain"
	"stellariq/pkg/platform/sentinel"
	"stellariq/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	pg    *containers.Postgres
	store *PostgresStore
}

func TestPostgresUserStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgres(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.pg.Truncate(s.T(), "users")
}

func (s *PostgresUserStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	user := newUser("pg.user@example.com")
	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Microsecond)
	user.UpdatedAt = user.CreatedAt

	s.Require().NoError(s.store.Create(ctx, user))

	byID, err := s.store.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, byID.Email)
	s.Equal(user.PasswordHash, byID.PasswordHash)
	s.True(byID.IsActive)
	s.Nil(byID.LastLoginAt)
	s.True(user.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := s.store.FindByEmail(ctx, user.Email)
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)
}

func (s *PostgresUserStoreSuite) TestDuplicateEmailIsConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newUser("dup@example.com")))

	err := s.store.Create(ctx, newUser("dup@example.com"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresUserStoreSuite) TestSave() {
	ctx := context.Background()
	user := newUser("save@example.com")
	s.Require().NoError(s.store.Create(ctx, user))

	now := time.Now().UTC().Truncate(time.Microsecond)
	user.IsActive = false
	user.CurrentRole = "Software Engineer"
	user.LastLoginAt = &now
	user.UpdatedAt = now
	s.Require().NoError(s.store.Save(ctx, user))

	found, err := s.store.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.False(found.IsActive)
	s.Equal("Software Engineer", found.CurrentRole)
	s.Require().NotNil(found.LastLoginAt)
	s.True(now.Equal(*found.LastLoginAt))
}

func (s *PostgresUserStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Save(ctx, newUser("ghost@example.com"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
