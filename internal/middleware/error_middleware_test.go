package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleAPIError_StatusMap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("title is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"not found", apperrors.NewResourceNotFoundError("project not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate", apperrors.ErrDuplicateApplication, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"invalid transition", fmt.Errorf("%w: accepted -> rejected", apperrors.ErrInvalidTransition), http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"email exists", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"forbidden", apperrors.NewForbiddenError("not yours"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"unavailable", fmt.Errorf("%w: timeout", apperrors.ErrStoreUnavailable), http.StatusServiceUnavailable, dto.ErrorCodeStoreUnavailable},
		{"inconsistent", fmt.Errorf("%w: two edges", apperrors.ErrStoreInconsistent), http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serveError(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.status < http.StatusInternalServerError {
				assert.Equal(t, dto.ErrorSeverityWarning, body.Error.Severity)
			} else {
				assert.Equal(t, dto.ErrorSeverityError, body.Error.Severity)
			}
		})
	}
}

func TestHandleAPIError_RetryAfterOnlyWhenUnavailable(t *testing.T) {
	rec, _ := serveError(t, apperrors.ErrStoreUnavailable)
	assert.Equal(t, RetryAfterSeconds, rec.Header().Get("Retry-After"))

	rec, _ = serveError(t, apperrors.ErrStoreInconsistent)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestHandleAPIError_MessageExposure(t *testing.T) {
	_, body := serveError(t, apperrors.NewValidationError("title is required"))
	assert.Equal(t, "title is required", body.Error.Message)

	_, body = serveError(t, fmt.Errorf("%w: dial tcp 10.0.0.1:5432", apperrors.ErrStoreInconsistent))
	assert.Equal(t, "Internal server error", body.Error.Message)
	assert.Nil(t, body.Error.Details)
}
