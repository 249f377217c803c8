package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// envelope builds the fields every response carries. Route-specific fields
// (userId, user, playlists, ...) sit next to them at the top level.
func envelope(ctx *gin.Context, status int, success bool, message string) gin.H {
	return gin.H{
		"status":     status,
		"timestamp":  time.Now().UTC(),
		"request_id": ctx.GetString("request_id"),
		"success":    success,
		"message":    message,
	}
}

// Success writes a successful JSON response. fields are merged at the top level.
func Success(ctx *gin.Context, status int, message string, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := envelope(ctx, status, true, message)
	for k, v := range fields {
		body[k] = v
	}
	ctx.JSON(status, body)
}

// Error writes a failure body with a top-level error string and optional details.
func Error(ctx *gin.Context, status int, message string, details any) {
	ctx.JSON(status, errorBody(ctx, status, message, details))
}

// Abort is Error for middleware; it stops the handler chain.
func Abort(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, errorBody(ctx, status, message, nil))
}

func errorBody(ctx *gin.Context, status int, message string, details any) gin.H {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := envelope(ctx, status, false, message)
	body["error"] = message
	if details != nil {
		body["details"] = details
	}
	return body
}
