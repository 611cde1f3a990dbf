package authz

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"drainadopt/internal/identity/models"
	userstore "drainadopt/internal/identity/store/user"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/platform/tx"
)

type RolesSuite struct {
	suite.Suite
	ctx   context.Context
	users *userstore.InMemoryUserStore
	roles *Roles
}

func TestRolesSuite(t *testing.T) {
	suite.Run(t, new(RolesSuite))
}

func (s *RolesSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = userstore.New()
	s.roles = NewRoles(s.users, tx.NewMemoryRunner(), NewAuthority(s.users, nil), nil)
}

func (s *RolesSuite) addUser(role models.Role) *models.User {
	u := &models.User{ID: id.NewUserID(), Name: "U", Email: id.NewUserID().String() + "@example.com", Role: role, CreatedAt: time.Now()}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RolesSuite) TestBootstrapAdmin() {
	s.Run("first admin is created", func() {
		admin, err := s.roles.BootstrapAdmin(s.ctx, "Root", "Root@Example.com", "pw")
		s.Require().NoError(err)
		s.Equal(models.RoleAdmin, admin.Role)
		s.Equal("root@example.com", admin.Email)
	})

	s.Run("second bootstrap is forbidden", func() {
		_, err := s.roles.BootstrapAdmin(s.ctx, "Again", "again@example.com", "pw")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *RolesSuite) TestBootstrapAdminDuplicateEmail() {
	existing := s.addUser(models.RoleAdopter)
	_, err := s.roles.BootstrapAdmin(s.ctx, "Root", existing.Email, "pw")
	s.ErrorIs(err, dErrors.New(dErrors.CodeConflict, "Email already exists"))
}

func (s *RolesSuite) TestBootstrapAdminIsClosedByPromotion() {
	s.addUser(models.RoleAdmin)
	_, err := s.roles.BootstrapAdmin(s.ctx, "Root", "root@example.com", "pw")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *RolesSuite) TestConcurrentBootstrapCreatesOneAdmin() {
	const goroutines = 20
	var wg sync.WaitGroup
	var created atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.roles.BootstrapAdmin(s.ctx, "Root", id.NewUserID().String()+"@example.com", "pw"); err == nil {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), created.Load())
}

func (s *RolesSuite) TestPromote() {
	admin := s.addUser(models.RoleAdmin)
	adopter := s.addUser(models.RoleAdopter)

	s.Run("admin promotes adopter", func() {
		u, err := s.roles.Promote(s.ctx, admin.ID, adopter.ID)
		s.Require().NoError(err)
		s.Equal(models.RoleAdmin, u.Role)

		stored, _ := s.users.FindByID(s.ctx, adopter.ID)
		s.Equal(models.RoleAdmin, stored.Role)
	})

	s.Run("already admin is a conflict", func() {
		_, err := s.roles.Promote(s.ctx, admin.ID, adopter.ID)
		s.ErrorIs(err, dErrors.New(dErrors.CodeConflict, "user is already an admin"))
	})

	s.Run("unknown target", func() {
		missing := id.NewUserID()
		_, err := s.roles.Promote(s.ctx, admin.ID, missing)
		s.ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "user not found: "+missing.String()))
	})

	s.Run("adopter cannot promote", func() {
		other := s.addUser(models.RoleAdopter)
		target := s.addUser(models.RoleAdopter)
		_, err := s.roles.Promote(s.ctx, other.ID, target.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
