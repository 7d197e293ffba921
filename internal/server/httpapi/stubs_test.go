package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const stubToken = "good-token"

var stubUser = &models.User{
	ID:        "7f0c3a52-4c0e-4a51-9b5c-3f1d2c8e9a10",
	Name:      "Ann",
	Email:     "ann@example.com",
	CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
}

type stubUserService struct {
	register     func(in services.RegisterInput) (*services.AuthResult, error)
	login        func(in services.LoginInput) (*services.AuthResult, error)
	logoutErr    error
	loggedOut    []string
	authenticate func(token string) (*services.Principal, error)
}

func (s *stubUserService) Register(_ context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	return s.register(in)
}

func (s *stubUserService) Login(_ context.Context, in services.LoginInput) (*services.AuthResult, error) {
	return s.login(in)
}

func (s *stubUserService) Logout(_ context.Context, tokenID string) error {
	s.loggedOut = append(s.loggedOut, tokenID)
	return s.logoutErr
}

func (s *stubUserService) Authenticate(_ context.Context, token string) (*services.Principal, error) {
	if s.authenticate != nil {
		return s.authenticate(token)
	}
	if token != stubToken {
		return nil, errUnauthorizedStub
	}
	return &services.Principal{User: stubUser, Token: &models.AccessToken{ID: "tok-1", UserID: stubUser.ID}}, nil
}

type stubTaskService struct {
	tasks      []*models.Task
	task       *models.Task
	err        error
	gotID      string
	gotCreate  services.CreateTaskInput
	gotUpdate  services.UpdateTaskInput
	gotUser    *models.User
	deletedIDs []string
}

func (s *stubTaskService) List(_ context.Context, user *models.User) ([]*models.Task, error) {
	s.gotUser = user
	return s.tasks, s.err
}

func (s *stubTaskService) Create(_ context.Context, user *models.User, in services.CreateTaskInput) (*models.Task, error) {
	s.gotUser, s.gotCreate = user, in
	return s.task, s.err
}

func (s *stubTaskService) Get(_ context.Context, user *models.User, id string) (*models.Task, error) {
	s.gotUser, s.gotID = user, id
	return s.task, s.err
}

func (s *stubTaskService) Update(_ context.Context, user *models.User, id string, in services.UpdateTaskInput) (*models.Task, error) {
	s.gotUser, s.gotID, s.gotUpdate = user, id, in
	return s.task, s.err
}

func (s *stubTaskService) Delete(_ context.Context, user *models.User, id string) error {
	s.gotUser, s.gotID = user, id
	if s.err == nil {
		s.deletedIDs = append(s.deletedIDs, id)
	}
	return s.err
}

func newTestRouter(users UserService, tasks TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(nil, users, tasks, logging.NewDiscardLogger())
}

// do sends a request with an optional raw JSON body and bearer token.
func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(h, req)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func newRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
