package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"github.com/gin-gonic/gin"
)

const (
	msgUnauthenticated = "Unauthenticated."
	msgForbidden       = "Unauthorized"
	msgMalformedJSON   = "Malformed JSON body."
	msgServerError     = "Server Error"
)

// errMalformedJSON marks a request body that is not valid JSON.
var errMalformedJSON = errors.New("malformed json body")

// maxBodyBytes caps request bodies read by bindJSON.
const maxBodyBytes = 1 << 20

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched so the service reports missing fields. A value of the wrong JSON
// type for a field becomes a field error; anything else unparsable is
// errMalformedJSON.
func bindJSON(c *gin.Context, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	err := c.ShouldBindJSON(dst)

	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return common.FieldError(typeErr.Field, validation.Message(typeErr.Field, "string", ""))
	default:
		return errMalformedJSON
	}
}

// respondWithError maps a service error to its status code and JSON body.
func respondWithError(c *gin.Context, logger logging.Logger, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": verr.Message(),
			"errors":  verr.Fields,
		})
	case errors.Is(err, errMalformedJSON):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMalformedJSON})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": msgForbidden})
	default:
		logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
	}
}
