package server

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "sqlite::memory:"
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.GinMode = "test"
	return cfg
}

func TestNewApp_UnsupportedDSN(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseDSN = "mysql://localhost/db"

	_, err := NewApp(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestPrepareStorage_Seed(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = true

	app, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	ctx := context.Background()
	require.NoError(t, app.prepareStorage(ctx))

	demo, err := app.repomanager.Users(app.db).GetByEmail(ctx, seed.DemoEmail)
	require.NoError(t, err)
	assert.Equal(t, seed.DemoEmail, demo.Email)

	// second run finds the demo user and leaves data alone
	var buf bytes.Buffer
	app.logger = logging.NewJSONLogger(&buf, slog.LevelInfo)
	require.NoError(t, app.prepareStorage(ctx))

	assert.Equal(t, 1, strings.Count(buf.String(), "already present"), buf.String())
}

func TestPrepareStorage_NoSeed(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	ctx := context.Background()
	require.NoError(t, app.prepareStorage(ctx))

	_, err = app.repomanager.Users(app.db).GetByEmail(ctx, seed.DemoEmail)
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
