// Package tasks stores to-do items. The repository never checks ownership;
// that is the task service's job.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type Repository interface {
	// ListByUser returns the user's tasks, newest first. Never nil.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// Update writes only the columns set in patch and bumps updated_at.
	Update(ctx context.Context, id string, patch models.TaskPatch) error
	Delete(ctx context.Context, id string) error
}
