// Package tokens stores personal access tokens. Rows hold a digest of the
// bearer token, never the token itself.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type Repository interface {
	// Create stores t. t.ID must already be set since it is embedded in the
	// signed bearer token.
	Create(ctx context.Context, t *models.AccessToken) error

	// FindByID returns common.ErrorNotFound when the token was revoked or
	// never existed.
	FindByID(ctx context.Context, id string) (*models.AccessToken, error)

	// Delete removes one token. Deleting a missing token is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteAllForUser revokes every token of the user and returns how many
	// rows were removed.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)

	// Touch stamps last_used_at.
	Touch(ctx context.Context, id string, at time.Time) error
}
