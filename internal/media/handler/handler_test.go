package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"drainadopt/internal/media/blob"
	"drainadopt/internal/media/handler/mocks"
	"drainadopt/internal/media/service"
	id "drainadopt/pkg/domain"
	dErrors "drainadopt/pkg/domain-errors"
	authmw "drainadopt/pkg/platform/middleware/auth"
	"drainadopt/pkg/testutil"
)

type staticValidator struct{}

func (staticValidator) ValidateToken(token string) (*authmw.JWTClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &authmw.JWTClaims{UserID: id.NewUserID().String()}, nil
}

func uploadRequest(t *testing.T, field, filename, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(body)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/media/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good")
	return req
}

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
	s.svc = mocks.NewMockService(gomock.NewController(s.T()))
	s.router = chi.NewRouter()
	New(s.svc, slog.New(slog.NewTextHandler(io.Discard, nil)), staticValidator{}).Register(s.router)
}

func (s *HandlerSuite) TestUpload() {
	s.Run("requires a bearer token", func() {
		req := uploadRequest(s.T(), "file", "a.png", "image/png", []byte("x"))
		req.Header.Del("Authorization")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("returns the url", func() {
		s.svc.EXPECT().MaxBytes().Return(service.DefaultMaxBytes)
		s.svc.EXPECT().Upload(gomock.Any(), "a.png", "image/png", gomock.Any()).
			Return(&service.Upload{URL: "/api/media/images/abc.png"}, nil)
		rr := testutil.DoRequest(s.router, uploadRequest(s.T(), "file", "a.png", "image/png", []byte("x")))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal("/api/media/images/abc.png", testutil.UnmarshalResponse[service.Upload](s.T(), rr).URL)
	})

	s.Run("missing file field", func() {
		s.svc.EXPECT().MaxBytes().Return(service.DefaultMaxBytes)
		rr := testutil.DoRequest(s.router, uploadRequest(s.T(), "photo", "a.png", "image/png", []byte("x")))
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, `multipart field "file" is required`)
	})

	s.Run("service validation", func() {
		s.svc.EXPECT().MaxBytes().Return(service.DefaultMaxBytes)
		s.svc.EXPECT().Upload(gomock.Any(), "a.txt", "text/plain", gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "only image uploads are allowed"))
		rr := testutil.DoRequest(s.router, uploadRequest(s.T(), "file", "a.txt", "text/plain", []byte("x")))
		testutil.AssertErrorMessage(s.T(), rr, http.StatusBadRequest, "only image uploads are allowed")
	})
}

func (s *HandlerSuite) TestGet() {
	s.svc.EXPECT().Open(gomock.Any(), "abc.png").Return(&blob.Object{Body: []byte("png"), ContentType: "image/png"}, nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/media/images/abc.png"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("image/png", rr.Header().Get("Content-Type"))
	s.Equal("png", rr.Body.String())
}

func TestUploadRoundTrip(t *testing.T) {
	router := chi.NewRouter()
	svc := service.New(blob.NewMemory("/api/media"))
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), staticValidator{}).Register(router)

	rr := testutil.DoRequest(router, uploadRequest(t, "file", "grate.jpg", "image/jpeg", []byte("jpeg")))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	url := testutil.UnmarshalResponse[service.Upload](t, rr).URL

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, strings.TrimPrefix(url, "/api")))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Body.String() != "jpeg" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
