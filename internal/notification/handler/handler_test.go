package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"drainadopt/internal/notification/handler/mocks"
	"drainadopt/internal/notification/models"
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

func (s *HandlerSuite) TestList() {
	userID := id.NewUserID()
	n := &models.Notification{
		ID:        id.NewNotificationID(),
		Type:      models.TypeDrainAdopted,
		Message:   "Ana adopted drain Main St",
		DrainID:   id.NewDrainID(),
		UserID:    &userID,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	s.svc.EXPECT().ListAll(gomock.Any()).Return([]*models.Notification{n}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/notifications"))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	body := testutil.UnmarshalResponse[[]map[string]any](s.T(), rr)
	s.Require().Len(*body, 1)
	s.Equal("DRAIN_ADOPTED", (*body)[0]["type"])
	s.Equal(false, (*body)[0]["read"])
	s.Equal(userID.String(), (*body)[0]["userId"])
}

func (s *HandlerSuite) TestUnreadCount() {
	s.svc.EXPECT().CountUnread(gomock.Any()).Return(int64(3), nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/notifications/unread-count"))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	body := testutil.UnmarshalResponse[models.UnreadCount](s.T(), rr)
	s.EqualValues(3, body.Count)
}

func (s *HandlerSuite) TestMarkRead() {
	s.Run("ok", func() {
		nID := id.NewNotificationID()
		s.svc.EXPECT().MarkRead(gomock.Any(), nID).Return(&models.Notification{ID: nID, Read: true}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/notifications/"+nID.String()+"/read"))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[map[string]any](s.T(), rr)
		s.Equal(true, (*body)["read"])
	})

	s.Run("not found", func() {
		nID := id.NewNotificationID()
		s.svc.EXPECT().MarkRead(gomock.Any(), nID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "notification not found: "+nID.String()))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/notifications/"+nID.String()+"/read"))
		testutil.AssertErrorMessage(s.T(), rr, http.StatusNotFound, "notification not found: "+nID.String())
	})

	s.Run("malformed id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/notifications/nope/read"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestMarkAllRead() {
	s.svc.EXPECT().MarkAllRead(gomock.Any()).Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/notifications/mark-all-read"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		body := testutil.UnmarshalResponse[MessageResponse](s.T(), rr)
		s.Equal("All notifications marked as read", body.Message)
	}
}
