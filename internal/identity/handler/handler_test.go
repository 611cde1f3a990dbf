package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"drainadopt/internal/identity/handler/mocks"
	"drainadopt/internal/identity/models"
	"drainadopt/internal/identity/service"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	"drainadopt/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.svc = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TestRegister() {
	s.Run("created", func() {
		userID := id.NewUserID()
		s.svc.EXPECT().Register(gomock.Any(), "Ana", "ana@example.com", "pw").
			Return(&service.AuthResult{Token: "t", UserID: userID, Email: "ana@example.com", Name: "Ana", Role: models.RoleAdopter}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/register", map[string]string{
			"name": " Ana ", "email": "ana@example.com", "password": "pw",
		})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal("t", (*body)["token"])
		s.Equal(userID.String(), (*body)["userId"])
		s.Equal("ADOPTER", (*body)["role"])
	})

	s.Run("validation happens before the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/register", map[string]string{"email": "x@example.com"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, "name is required")
	})

	s.Run("duplicate email", func() {
		s.svc.EXPECT().Register(gomock.Any(), "Ana", "ana@example.com", "pw").
			Return(nil, dErrors.New(dErrors.CodeConflict, "Email already exists"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/register", map[string]string{
			"name": "Ana", "email": "ana@example.com", "password": "pw",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, "Email already exists")
	})
}

func (s *HandlerSuite) TestLogin() {
	s.svc.EXPECT().Login(gomock.Any(), "ana@example.com", "bad").
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid email or password"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login", map[string]string{
		"email": "ana@example.com", "password": "bad",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertErrorMessage(s.T(), rr, http.StatusUnauthorized, "Invalid email or password")
}

func (s *HandlerSuite) TestUsers() {
	userID := id.NewUserID()

	s.Run("get", func() {
		drainID := id.NewDrainID()
		s.svc.EXPECT().GetUser(gomock.Any(), userID).
			Return(&models.View{ID: userID, Name: "Ana", Role: models.RoleAdopter, AdoptedDrainID: &drainID}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users/"+userID.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(drainID.String(), (*body)["adoptedDrainId"])
	})

	s.Run("malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users/not-a-uuid"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("list", func() {
		s.svc.EXPECT().ListUsers(gomock.Any()).Return([]models.View{{ID: userID}}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[[]map[string]any](s.T(), rr)
		s.Len(*body, 1)
	})
}
