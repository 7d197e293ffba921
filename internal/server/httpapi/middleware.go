package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// requestLogger logs one line per request. Headers and bodies are never
// logged since they carry tokens and passwords.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// requireToken resolves the bearer token and stores the principal in the
// gin context. Requests without a usable token are aborted with 401.
func requireToken(svc UserService, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
			return
		}

		p, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, common.ErrorUnauthorized) {
				logger.Error(c.Request.Context(), "authenticate failed", "error", err.Error())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// principal returns the requester stored by requireToken.
func principal(c *gin.Context) *services.Principal {
	p, _ := c.MustGet(principalKey).(*services.Principal)
	return p
}
