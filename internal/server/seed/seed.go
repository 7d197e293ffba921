// Package seed loads demo accounts and tasks into an empty database.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password"

	demoTasks    = 10
	extraUsers   = 3
	tasksPerUser = 5
)

var titles = []string{
	"Buy groceries", "Call the dentist", "Renew passport", "Water the plants",
	"Finish quarterly report", "Book train tickets", "Clean the garage",
	"Pay electricity bill", "Plan weekend hike", "Reply to Anna's email",
	"Fix the leaking tap", "Read chapter 4", "Back up laptop", "Walk the dog",
	"Prepare slides for Monday", "Order birthday present",
}

var descriptions = []string{
	"Do it before Friday.",
	"Check the list on the fridge first.",
	"Ask for a receipt.",
	"Takes about an hour.",
}

type Seeder struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	logger      logging.Logger
	rnd         *rand.Rand
	now         func() time.Time
}

func NewSeeder(db *sql.DB, m repomanager.RepositoryManager, bcryptCost int, logger logging.Logger) *Seeder {
	return &Seeder{
		db:          db,
		repomanager: m,
		hasher:      auth.NewPasswordHasher(bcryptCost),
		logger:      logger.With("module", "seed"),
		rnd:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:         time.Now,
	}
}

// Run creates the demo user with ten tasks and three more users with five
// tasks each. It does nothing when the demo user already exists and reports
// whether anything was written.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, DemoEmail)
	if err == nil {
		s.logger.Info(ctx, "demo data already present, skipping")
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("check demo user: %w", err)
	}

	hash, err := s.hasher.Hash(DemoPassword)
	if err != nil {
		return false, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		demo, err := s.createUser(ctx, tx, "Demo User", DemoEmail, hash)
		if err != nil {
			return err
		}
		if err := s.createTasks(ctx, tx, demo.ID, demoTasks); err != nil {
			return err
		}

		for i := 0; i < extraUsers; i++ {
			suffix, err := common.MakeRandHexString(3)
			if err != nil {
				return err
			}
			u, err := s.createUser(ctx, tx, fmt.Sprintf("Sample User %d", i+1), fmt.Sprintf("user-%s@example.com", suffix), hash)
			if err != nil {
				return err
			}
			if err := s.createTasks(ctx, tx, u.ID, tasksPerUser); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}

	s.logger.Info(ctx, "demo data created", "email", DemoEmail, "users", 1+extraUsers)
	return true, nil
}

func (s *Seeder) createUser(ctx context.Context, tx dbx.DBTX, name, email, hash string) (*models.User, error) {
	return s.repomanager.Users(tx).Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
}

func (s *Seeder) createTasks(ctx context.Context, tx dbx.DBTX, userID string, n int) error {
	repo := s.repomanager.Tasks(tx)
	base := s.now().UTC()

	for i := 0; i < n; i++ {
		task := &models.Task{
			UserID:      userID,
			Title:       titles[s.rnd.IntN(len(titles))],
			IsCompleted: s.rnd.IntN(3) == 0,
			// spread creation times so the newest-first order is visible
			CreatedAt: base.Add(-time.Duration(n-i) * time.Minute),
		}
		if s.rnd.IntN(2) == 0 {
			d := descriptions[s.rnd.IntN(len(descriptions))]
			task.Description = &d
		}
		if _, err := repo.Create(ctx, task); err != nil {
			return err
		}
	}
	return nil
}
