package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is implemented by services.UserService.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Logout(ctx context.Context, tokenID string) error
	Authenticate(ctx context.Context, plaintext string) (*services.Principal, error)
}

// RegisterHandler returns the handler for POST /api/register.
func RegisterHandler(svc UserService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.RegisterInput
		if err := bindJSON(c, &in); err != nil {
			respondWithError(c, logger, err)
			return
		}

		res, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful!",
			"user":    res.User,
			"token":   res.Token,
		})
	}
}

// LoginHandler returns the handler for POST /api/login.
func LoginHandler(svc UserService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.LoginInput
		if err := bindJSON(c, &in); err != nil {
			respondWithError(c, logger, err)
			return
		}

		res, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			respondWithError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful! Welcome back!",
			"user":    res.User,
			"token":   res.Token,
		})
	}
}

// LogoutHandler returns the handler for POST /api/logout. Only the token the
// request was made with is revoked.
func LogoutHandler(svc UserService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if err := svc.Logout(c.Request.Context(), p.Token.ID); err != nil {
			respondWithError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully!"})
	}
}

// MeHandler returns the handler for GET /api/user.
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": principal(c).User})
	}
}
