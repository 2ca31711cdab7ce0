package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/labmatch/internal/app/models/dto"
	"github.com/yigit/labmatch/internal/config"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	t.Setenv("JWT_SECRET", "integration-secret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("NOTIFY_REDIS_ENABLED", "false")
	t.Setenv("NOTIFY_NATS_ENABLED", "false")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Server.Mode = "production"

	ctx := context.Background()
	store, err := OpenStore(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)

	deps := BuildDependencies(ctx, cfg, store, zerolog.Nop())
	t.Cleanup(deps.Close)

	return &api{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

func (a *api) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *api) register(body map[string]interface{}) (token, userID string) {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &resp))
	return resp.Token.AccessToken, resp.User.ID
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestAPI_ApplicationLifecycle(t *testing.T) {
	a := newAPI(t)

	facultyToken, _ := a.register(map[string]interface{}{
		"email": "grace@uni.edu", "password": "hopper123", "name": "Grace",
		"roleType": "FACULTY", "departmentName": "Computer Science", "departmentCode": "CS",
		"researchInterests": "compilers, machine learning",
	})
	studentToken, _ := a.register(map[string]interface{}{
		"email": "ada@uni.edu", "password": "lovelace1", "name": "Ada",
		"roleType": "STUDENT", "departmentName": "Computer Science", "departmentCode": "CS",
		"year": 3, "interests": "machine learning",
	})

	rec, env := a.do(http.MethodPost, "/api/v1/projects", facultyToken, map[string]string{
		"title": "Learning compilers", "techStack": "go, machine learning",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	rec, _ = a.do(http.MethodPost, "/api/v1/projects", studentToken, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = a.do(http.MethodGet, "/api/v1/projects/recommended", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ranked := decode[dto.ListResponse](t, env.Data)
	assert.Equal(t, 1, ranked.Count)

	rec, env = a.do(http.MethodGet, "/api/v1/projects/"+project.ID+"/score", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	score := decode[struct {
		Score int `json:"score"`
	}](t, env.Data)
	assert.Equal(t, 25+20+15, score.Score)

	applyPath := "/api/v1/projects/" + project.ID + "/applications"
	rec, env = a.do(http.MethodPost, applyPath, studentToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	app := decode[struct {
		StudentID string `json:"studentId"`
		Status    string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "pending", app.Status)

	rec, env = a.do(http.MethodPost, applyPath, studentToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, env.Error.Code)

	decidePath := applyPath + "/" + app.StudentID
	rec, _ = a.do(http.MethodPut, decidePath, studentToken, map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = a.do(http.MethodPut, decidePath, facultyToken, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)

	rec, _ = a.do(http.MethodPut, decidePath, facultyToken, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = a.do(http.MethodPut, decidePath, facultyToken, map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrorCodeInvalidTransition, env.Error.Code)

	rec, env = a.do(http.MethodGet, "/api/v1/notifications", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decode[struct {
		Items []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"items"`
		UnreadCount int `json:"unreadCount"`
	}](t, env.Data)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, "StatusUpdate", notes.Items[0].Type)
	assert.Equal(t, 1, notes.UnreadCount)

	rec, _ = a.do(http.MethodPatch, "/api/v1/notifications/"+notes.Items[0].ID+"/read", studentToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = a.do(http.MethodGet, "/api/v1/faculty/me/applications", facultyToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.ListResponse](t, env.Data).Count)

	rec, env = a.do(http.MethodGet, "/api/v1/students/me/applications", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.ListResponse](t, env.Data).Count)

	rec, env = a.do(http.MethodDelete, "/api/v1/projects/"+project.ID, facultyToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.DeleteProjectResponse](t, env.Data).RemovedApplications)

	rec, env = a.do(http.MethodGet, "/api/v1/projects/"+project.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, env.Error.Code)
}

func TestAPI_AuthAndInfrastructure(t *testing.T) {
	a := newAPI(t)

	rec, env := a.do(http.MethodGet, "/api/v1/students/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, env.Error.Code)

	rec, _ = a.do(http.MethodGet, "/api/v1/students/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@uni.edu", "password": "whatever1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)

	rec, env = a.do(http.MethodGet, "/api/v1/departments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[dto.ListResponse](t, env.Data).Count)

	rec, _ = a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "labmatch_http_requests_total")
}
