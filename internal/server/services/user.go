// Package services contains the server-side business logic. UserService owns
// registration, login, logout and bearer token resolution; TaskService owns
// the owner-scoped task operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"github.com/google/uuid"
)

const invalidCredentialsMessage = "The provided credentials are incorrect."

// RegisterInput is the body of POST /api/register.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,bcryptmax"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginInput is the body of POST /api/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Register and Login. Token is the only place the
// plaintext bearer token ever appears.
type AuthResult struct {
	User  *models.User
	Token string
}

// Principal is an authenticated requester together with the token it used.
type Principal struct {
	User  *models.User
	Token *models.AccessToken
}

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	validator             *validation.Validator
	hasher                *auth.PasswordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	now                   func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		validator:             validation.New(),
		hasher:                auth.NewPasswordHasher(cfg.BcryptCost),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		now:                   time.Now,
	}
}

// Register validates in, creates the user and issues a first token in one
// transaction. Validation failures are returned as *common.ValidationError.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	verr := s.validator.Struct(in)
	if in.Password != "" && in.Password != in.PasswordConfirmation {
		verr.Add("password", validation.Message("password", "confirmed", ""))
	}

	if !verr.Has("email") {
		_, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			verr.Add("email", validation.Message("email", "unique", ""))
		case !errors.Is(err, common.ErrorNotFound):
			return nil, internal(err)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal(err)
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		now := s.now().UTC()
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return err
		}

		token, err := s.issueToken(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		result = &AuthResult{User: user, Token: token}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.FieldError("email", validation.Message("email", "unique", ""))
		}
		return nil, internal(err)
	}

	return result, nil
}

// Login checks the credentials, revokes every token the user holds and
// issues a new one. Unknown emails and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)

	if verr := s.validator.Struct(in); verr.HasErrors() {
		return nil, verr
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(in.Password)
			return nil, invalidCredentials()
		}
		return nil, internal(err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, in.Password)
	if err != nil {
		return nil, internal(err)
	}
	if !ok {
		return nil, invalidCredentials()
	}

	var token string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Tokens(tx).DeleteAllForUser(ctx, user.ID); err != nil {
			return err
		}
		var err error
		token, err = s.issueToken(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		return nil, internal(err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes exactly the token the request was authenticated with.
func (s *UserService) Logout(ctx context.Context, tokenID string) error {
	if err := s.repomanager.Tokens(s.db).Delete(ctx, tokenID); err != nil {
		return internal(err)
	}
	return nil
}

// Authenticate resolves a plaintext bearer token to its owner. Every token
// problem yields common.ErrorUnauthorized; storage failures yield
// common.ErrorInternal.
func (s *UserService) Authenticate(ctx context.Context, plaintext string) (*Principal, error) {
	now := s.now()

	claims, err := auth.ParseToken(plaintext, s.jwtSecret, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	tokens := s.repomanager.Tokens(s.db)

	token, err := tokens.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: token revoked", common.ErrorUnauthorized)
		}
		return nil, internal(err)
	}

	if !auth.HashesEqual(token.TokenHash, auth.HashToken(plaintext)) || token.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: token mismatch", common.ErrorUnauthorized)
	}
	if token.Expired(now) {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, common.ErrTokenExpired)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: user gone", common.ErrorUnauthorized)
		}
		return nil, internal(err)
	}

	if err := tokens.Touch(ctx, token.ID, now); err != nil {
		return nil, internal(err)
	}
	usedAt := now.UTC()
	token.LastUsedAt = &usedAt

	return &Principal{User: user, Token: token}, nil
}

// --- helpers below ---

func (s *UserService) issueToken(ctx context.Context, tx dbx.DBTX, userID string) (string, error) {
	now := s.now().UTC()
	expiresAt := s.expiresAt(now)
	tokenID := uuid.NewString()

	plaintext, err := auth.GenerateToken(userID, tokenID, s.jwtSecret, now, expiresAt)
	if err != nil {
		return "", err
	}

	err = s.repomanager.Tokens(tx).Create(ctx, &models.AccessToken{
		ID:        tokenID,
		UserID:    userID,
		Name:      models.AccessTokenName,
		TokenHash: auth.HashToken(plaintext),
		Abilities: []string{"*"},
		ExpiresAt: expiresAt,
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}

	return plaintext, nil
}

// expiresAt returns the expiry of a token issued at now. The default
// validity means one calendar year.
func (s *UserService) expiresAt(now time.Time) time.Time {
	if s.tokenValidityDuration == common.DefaultTokenValidity {
		return now.AddDate(1, 0, 0)
	}
	return now.Add(s.tokenValidityDuration)
}

// normalizeEmail makes emails unique regardless of case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() error {
	return common.FieldError("email", invalidCredentialsMessage).WithCause(common.ErrInvalidCredentials)
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
