package httpkit

import (
	"errors"
	"net/http"

	"location_picker/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload interface{}) { c.JSON(status, payload) }
func OK(c *gin.Context, payload interface{})               { c.JSON(http.StatusOK, payload) }

// Accepted answers 202 for requests whose outcome arrives on the event stream.
func Accepted(c *gin.Context, payload interface{}) { c.JSON(http.StatusAccepted, payload) }

func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes err and reports whether there was one. An *apperr.Error
// anywhere in the chain picks the status and message; anything else is a 500
// whose cause stays in the logs. Server-side failures are recorded on the
// context for the request logger.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "internal error", nil)
		return true
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	Error(c, status, domainErr.Message, domainErr.Details)
	return true
}
