package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"drainadopt/internal/adoption/handler/mocks"
	"drainadopt/internal/adoption/models"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	authmw "drainadopt/pkg/platform/middleware/auth"
	"drainadopt/pkg/testutil"
)

type staticValidator struct{ userID id.UserID }

func (v staticValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &authmw.JWTClaims{UserID: v.userID.String()}, nil
}

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	svc    *mocks.MockService
	caller id.UserID
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.svc = mocks.NewMockService(gomock.NewController(s.T()))
	s.caller = id.NewUserID()
	s.router = chi.NewRouter()
	New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)), staticValidator{userID: s.caller}).Register(s.router)
}

func authed(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer good")
	return r
}

func (s *HandlerSuite) TestListAndGet() {
	drain := &models.Drain{ID: id.NewDrainID(), Name: "Main St", Latitude: 1, Longitude: 2}

	s.Run("list", func() {
		s.svc.EXPECT().ListDrains(gomock.Any()).Return([]*models.Drain{drain}, nil)
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/drains"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[[]models.View](s.T(), rr)
		s.Require().Len(*body, 1)
		s.Equal("Main St", (*body)[0].Name)
	})

	s.Run("get missing", func() {
		missing := id.NewDrainID()
		s.svc.EXPECT().GetDrain(gomock.Any(), missing).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "drain not found: "+missing.String()))
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/drains/"+missing.String()))
		testutil.AssertErrorMessage(s.T(), rr, http.StatusNotFound, "drain not found: "+missing.String())
	})
}

func (s *HandlerSuite) TestAdopt() {
	drainID := id.NewDrainID()

	s.Run("requires a bearer token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/drains/"+drainID.String()+"/adopt"))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("defaults to the caller", func() {
		caller := s.caller
		s.svc.EXPECT().AdoptDrainFor(gomock.Any(), s.caller, s.caller, drainID).
			Return(&models.Drain{ID: drainID, Name: "D", AdoptedByUserID: &caller}, nil)

		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodPost, "/drains/"+drainID.String()+"/adopt")))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[models.View](s.T(), rr)
		s.Require().NotNil(body.AdoptedByUserID)
		s.Equal(s.caller, *body.AdoptedByUserID)
	})

	s.Run("explicit user id and conflict", func() {
		userID := id.NewUserID()
		winner := id.NewUserID()
		s.svc.EXPECT().AdoptDrainFor(gomock.Any(), s.caller, userID, drainID).
			Return(nil, dErrors.New(dErrors.CodeConflict, "drain already adopted by user "+winner.String()))

		path := "/drains/" + drainID.String() + "/adopt?userId=" + userID.String()
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodPost, path)))
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, "drain already adopted by user "+winner.String())
	})

	s.Run("malformed user id", func() {
		path := "/drains/" + drainID.String() + "/adopt?userId=abc"
		rr := testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodPost, path)))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestUpdate() {
	drainID := id.NewDrainID()

	s.Run("passes only provided fields", func() {
		s.svc.EXPECT().UpdateDrain(gomock.Any(), s.caller, drainID, gomock.Any()).
			DoAndReturn(func(_ any, _ id.UserID, _ id.DrainID, u models.DrainUpdate) (*models.Drain, error) {
				s.Require().NotNil(u.Name)
				s.Equal("New", *u.Name)
				s.Nil(u.Latitude)
				s.Nil(u.Longitude)
				s.Nil(u.ImageURL)
				return &models.Drain{ID: drainID, Name: "New", Latitude: 5}, nil
			})
		req := authed(testutil.NewJSONRequest(s.T(), http.MethodPut, "/drains/"+drainID.String(), map[string]string{"name": "New"}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[models.View](s.T(), rr)
		s.Equal(5.0, body.Latitude)
	})

	s.Run("rejects out of range latitude", func() {
		req := authed(testutil.NewJSONRequest(s.T(), http.MethodPut, "/drains/"+drainID.String(), map[string]float64{"latitude": 91}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, "latitude must be between -90 and 90")
	})

	s.Run("forbidden for adopters", func() {
		s.svc.EXPECT().UpdateDrain(gomock.Any(), s.caller, drainID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "admin role required"))
		req := authed(testutil.NewJSONRequest(s.T(), http.MethodPut, "/drains/"+drainID.String(), map[string]string{"name": "New"}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})
}

func (s *HandlerSuite) TestCreateAndDelete() {
	drainID := id.NewDrainID()

	s.svc.EXPECT().CreateDrain(gomock.Any(), s.caller, models.NewDrain{Name: "Main St", Latitude: 1, Longitude: 2}).
		Return(&models.Drain{ID: drainID, Name: "Main St", Latitude: 1, Longitude: 2}, nil)
	req := authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/drains", map[string]any{"name": " Main St ", "latitude": 1, "longitude": 2}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	s.svc.EXPECT().DeleteDrain(gomock.Any(), s.caller, drainID).Return(nil)
	rr = testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodDelete, "/drains/"+drainID.String())))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	s.svc.EXPECT().DeleteDrain(gomock.Any(), s.caller, drainID).
		Return(dErrors.New(dErrors.CodeNotFound, "drain not found: "+drainID.String()))
	rr = testutil.DoRequest(s.router, authed(testutil.NewRequest(s.T(), http.MethodDelete, "/drains/"+drainID.String())))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}
