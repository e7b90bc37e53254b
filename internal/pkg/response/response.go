package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maternity/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Fail writes err using the status and code of its kind. Errors without a
// kind are attached to the gin context for the request logger and reported
// to the client as a generic internal error.
func Fail(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperr.KindInternal {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	status, code := Status(appErr.Kind)
	if appErr.Err != nil {
		_ = c.Error(appErr.Err).SetType(gin.ErrorTypePrivate)
	}
	if len(appErr.Fields) > 0 {
		ErrorWithDetails(c, status, code, appErr.Message, appErr.Fields)
		return
	}
	Error(c, status, code, appErr.Message)
}

// BadRequest reports a malformed body or parameter.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

func Status(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case apperr.KindCapacity:
		return http.StatusBadRequest, "CAPACITY_ERROR"
	case apperr.KindState:
		return http.StatusConflict, "STATE_ERROR"
	case apperr.KindConflict:
		return http.StatusConflict, "CONFLICT"
	case apperr.KindRole:
		return http.StatusForbidden, "ROLE_ERROR"
	case apperr.KindPermission:
		return http.StatusForbidden, "FORBIDDEN"
	case apperr.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
