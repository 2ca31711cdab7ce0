package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/pkg/apperrors"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParseLimit(t *testing.T) {
	limit, err := ParseLimit(contextFor("/"), DefaultPageSize, MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, limit)

	limit, err = ParseLimit(contextFor("/?limit=7"), DefaultPageSize, MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, 7, limit)

	limit, err = ParseLimit(contextFor("/?limit=5000"), DefaultPageSize, MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, limit)

	_, err = ParseLimit(contextFor("/?limit=-1"), DefaultPageSize, MaxPageSize)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = ParseLimit(contextFor("/?limit=ten"), DefaultPageSize, MaxPageSize)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestParseBoolQuery(t *testing.T) {
	v, err := ParseBoolQuery(contextFor("/?unread=true"), "unread")
	require.NoError(t, err)
	assert.True(t, v)

	v, err = ParseBoolQuery(contextFor("/"), "unread")
	require.NoError(t, err)
	assert.False(t, v)

	_, err = ParseBoolQuery(contextFor("/?unread=maybe"), "unread")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
