package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
)

var (
	annUser = &api.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}
	created = time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
)

type fakeClient struct {
	pingErr error

	regArgs []string
	regErr  error

	loginArgs []string
	loginErr  error
	logins    int

	logoutSession *api.Session
	logoutErr     error

	meErr error

	tasks   []*api.Task
	listErr error

	createTitle string
	createDesc  *string
	createErr   error

	getID  string
	getErr error

	updateID    string
	updatePatch api.TaskPatch
	updateErr   error

	deleteID  string
	deleteErr error
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Register(_ context.Context, name, email, password, confirmation string) (*api.Session, error) {
	f.regArgs = []string{name, email, password, confirmation}
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &api.Session{Token: "t-register", User: &api.User{ID: "u1", Name: name, Email: email}}, nil
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*api.Session, error) {
	f.loginArgs = []string{email, password}
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.logins++
	return &api.Session{Token: "t-login", User: annUser}, nil
}

func (f *fakeClient) Logout(_ context.Context, s *api.Session) error {
	f.logoutSession = s
	return f.logoutErr
}

func (f *fakeClient) Me(_ context.Context, s *api.Session) (*api.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return s.User, nil
}

func (f *fakeClient) ListTasks(context.Context, *api.Session) ([]*api.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeClient) CreateTask(_ context.Context, _ *api.Session, title string, description *string) (*api.Task, error) {
	f.createTitle, f.createDesc = title, description
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &api.Task{ID: "new-id", Title: title, Description: description, CreatedAt: created, UpdatedAt: created}, nil
}

func (f *fakeClient) GetTask(_ context.Context, _ *api.Session, id string) (*api.Task, error) {
	f.getID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &api.Task{ID: id, Title: "Buy milk", CreatedAt: created, UpdatedAt: created}, nil
}

func (f *fakeClient) UpdateTask(_ context.Context, _ *api.Session, id string, patch api.TaskPatch) (*api.Task, error) {
	f.updateID, f.updatePatch = id, patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	t := &api.Task{ID: id, Title: "Buy milk", CreatedAt: created, UpdatedAt: created}
	if patch.IsCompleted != nil {
		t.IsCompleted = *patch.IsCompleted
	}
	return t, nil
}

func (f *fakeClient) DeleteTask(_ context.Context, _ *api.Session, id string) error {
	f.deleteID = id
	return f.deleteErr
}

// newTestApp returns an App over f whose prompts read input.
func newTestApp(f *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		client: f,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    &out,
	}, &out
}

func loggedIn(a *App) *App {
	a.session = &api.Session{Token: "t1", User: annUser}
	return a
}

// stubPasswords makes getPassword return the given values in order.
func stubPasswords(pw ...string) func() {
	orig := getPassword
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		p := pw[i]
		i++
		return []byte(p), nil
	}
	return func() { getPassword = orig }
}
