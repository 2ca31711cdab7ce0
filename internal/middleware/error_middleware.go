package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
	"github.com/yigit/labmatch/internal/pkg/logger"
)

// RetryAfterSeconds is advertised on 503 responses
const RetryAfterSeconds = "1"

// errorMapping is the HTTP shape of one error kind
type errorMapping struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classify maps an application error to its HTTP shape. Order matters:
// specific sentinels are checked before their broader kinds.
func classify(err error) errorMapping {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrDepartmentNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case errors.Is(err, apperrors.ErrDuplicateApplication):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Application already exists"}
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return errorMapping{http.StatusConflict, dto.ErrorCodeInvalidTransition, "Application already decided"}
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"}
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrResourceAlreadyExists):
		return errorMapping{http.StatusConflict, dto.ErrorCodeConflict, "Conflict"}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return errorMapping{http.StatusServiceUnavailable, dto.ErrorCodeStoreUnavailable, "Service temporarily unavailable"}
	case errors.Is(err, apperrors.ErrStoreInconsistent):
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "Internal server error"}
	default:
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
	}
}

// HandleAPIError writes the error response for err
func HandleAPIError(c *gin.Context, err error) {
	m := classify(err)
	errorDetail := dto.NewErrorDetail(m.code, m.message)
	if m.status < http.StatusInternalServerError {
		errorDetail.WithSeverity(dto.ErrorSeverityWarning)
	}

	// Client-facing messages from CustomError are safe to echo; server
	// failures keep the generic message.
	var custom *apperrors.CustomError
	if m.status < http.StatusInternalServerError && errors.As(err, &custom) {
		errorDetail.Message = custom.Error()
		if custom.Details != nil {
			errorDetail.WithDetails(custom.Details)
		}
	} else if m.status < http.StatusInternalServerError {
		errorDetail.WithDetails(err.Error())
	}

	if m.status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", m.status).
			Msg("Request failed")
	}
	if m.status == http.StatusServiceUnavailable {
		c.Header("Retry-After", RetryAfterSeconds)
	}

	c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(errorDetail))
}
