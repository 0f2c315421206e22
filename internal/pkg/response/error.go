package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/logger/sl"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// AppErrors are rendered with their own status code and message.
// Anything else is logged and rendered as 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	slog.Default().Error("request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		sl.Err(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 with an optional details field taken from a binding error.
func BadRequest(c *gin.Context, message string, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
