package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/identity/models"
	userstore "drainadopt/internal/identity/store/user"
	jwttoken "drainadopt/internal/jwt_token"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *userstore.InMemoryUserStore
	tokens  *jwttoken.JWTService
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = userstore.New()
	s.tokens = jwttoken.NewJWTService("test-key", "drainadopt")
	s.service = New(s.store, s.tokens, WithTokenTTL(time.Hour))
}

func (s *ServiceSuite) TestRegister() {
	s.Run("creates an adopter and returns a usable token", func() {
		res, err := s.service.Register(s.ctx, " Ana ", "Ana@Example.com", "hunter22")
		s.Require().NoError(err)
		s.Equal(models.RoleAdopter, res.Role)
		s.Equal("ana@example.com", res.Email)
		s.Equal("Ana", res.Name)

		claims, err := s.tokens.ValidateToken(res.Token)
		s.Require().NoError(err)
		s.Equal(res.UserID.String(), claims.UserID)

		stored, err := s.store.FindByID(s.ctx, res.UserID)
		s.Require().NoError(err)
		s.NotEqual("hunter22", stored.PasswordHash)
	})

	s.Run("duplicate email is a conflict", func() {
		_, err := s.service.Register(s.ctx, "Other", "ana@example.com", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.ErrorIs(err, dErrors.New(dErrors.CodeConflict, "Email already exists"))
	})
}

func (s *ServiceSuite) TestLogin() {
	_, err := s.service.Register(s.ctx, "Bo", "bo@example.com", "correct-horse")
	s.Require().NoError(err)

	s.Run("valid credentials", func() {
		res, err := s.service.Login(s.ctx, "BO@example.com", "correct-horse")
		s.Require().NoError(err)
		s.Equal("Bo", res.Name)
	})

	s.Run("wrong password", func() {
		_, err := s.service.Login(s.ctx, "bo@example.com", "nope")
		s.ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password"))
	})

	s.Run("unknown email looks the same", func() {
		_, err := s.service.Login(s.ctx, "nobody@example.com", "nope")
		s.ErrorIs(err, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password"))
	})
}

func (s *ServiceSuite) TestUserProjections() {
	a, err := s.service.Register(s.ctx, "A", "a@example.com", "pw")
	s.Require().NoError(err)
	_, err = s.service.Register(s.ctx, "B", "b@example.com", "pw")
	s.Require().NoError(err)

	s.Run("get", func() {
		view, err := s.service.GetUser(s.ctx, a.UserID)
		s.Require().NoError(err)
		s.Equal("a@example.com", view.Email)
		s.Nil(view.AdoptedDrainID)
	})

	s.Run("get unknown", func() {
		missing := id.NewUserID()
		_, err := s.service.GetUser(s.ctx, missing)
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "user not found: "+missing.String()))
	})

	s.Run("list", func() {
		views, err := s.service.ListUsers(s.ctx)
		s.Require().NoError(err)
		s.Len(views, 2)
	})
}
