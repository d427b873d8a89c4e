// Package response defines the JSON envelope returned by every API route.
package response

import (
	"net/http"

	app_errors "lingo-gate/internal/errors"
	"lingo-gate/internal/i18n"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body: code 0 on success, the error code
// otherwise.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a 200 envelope with the given payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{
		Code:    0,
		Message: i18n.Message(i18n.Lang(c), "success", "Success"),
		Data:    data,
	})
}

// Error writes an APIError as an envelope with its HTTP status. The message
// is localized to the request language when a translation exists.
func Error(c *gin.Context, apiErr *app_errors.APIError) {
	c.JSON(apiErr.HTTPStatus, gin.H{
		"code":    apiErr.Code,
		"message": i18n.Message(i18n.Lang(c), "error."+apiErr.Code, apiErr.Message),
	})
}
