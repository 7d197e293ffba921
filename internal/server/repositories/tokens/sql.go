package tokens

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, t *models.AccessToken) error {
	abilities, err := json.Marshal(t.Abilities)
	if err != nil {
		return fmt.Errorf("encode abilities: %w", err)
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO personal_access_tokens (id, user_id, name, token_hash, abilities, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Name, t.TokenHash, string(abilities), t.ExpiresAt.UTC(), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.AccessToken, error) {
	query :=
		`SELECT id, user_id, name, token_hash, abilities, expires_at, last_used_at, created_at
		 FROM personal_access_tokens
		 WHERE id = $1`

	var (
		t          models.AccessToken
		abilities  string
		lastUsedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Name, &t.TokenHash, &abilities, &t.ExpiresAt, &lastUsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(abilities), &t.Abilities); err != nil {
		return nil, fmt.Errorf("decode abilities: %w", err)
	}
	if lastUsedAt.Valid {
		t.LastUsedAt = &lastUsedAt.Time
	}

	return &t, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM personal_access_tokens WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM personal_access_tokens WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Touch(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE personal_access_tokens SET last_used_at = $1 WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, at.UTC(), id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
