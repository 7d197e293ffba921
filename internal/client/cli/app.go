package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/api"
	"github.com/dmitrijs2005/gophtasks/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the subset of *api.HTTPClient the CLI uses.
type apiClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password, confirmation string) (*api.Session, error)
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Logout(ctx context.Context, s *api.Session) error
	Me(ctx context.Context, s *api.Session) (*api.User, error)
	ListTasks(ctx context.Context, s *api.Session) ([]*api.Task, error)
	CreateTask(ctx context.Context, s *api.Session, title string, description *string) (*api.Task, error)
	GetTask(ctx context.Context, s *api.Session, id string) (*api.Task, error)
	UpdateTask(ctx context.Context, s *api.Session, id string, patch api.TaskPatch) (*api.Task, error)
	DeleteTask(ctx context.Context, s *api.Session, id string) error
}

type App struct {
	config  *config.Config
	client  apiClient
	session *api.Session
	reader  *bufio.Reader
	out     io.Writer

	// lastList lets task commands take a row number from the latest list.
	lastList []*api.Task

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		client: api.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() && a.session.User != nil {
		s = a.session.User.Email + " "
	}
	s = s + string(a.Mode())
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the connectivity watcher and the REPL. It returns when the
// user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to gophtasks CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)

	if a.isLoggedIn() {
		_ = a.Logout(ctx)
	}
}

const onlineCheckInterval = 5 * time.Second

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
