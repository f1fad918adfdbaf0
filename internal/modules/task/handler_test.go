package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tasktracker/internal/middleware"
)

func setupTestRouter(svc *Service, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protected := r.Group("")
	protected.Use(func(c *gin.Context) {
		middleware.WithIdentity(c, middleware.Identity{UserID: userID})
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(protected)
	return r
}

func doJSONRequest(r *gin.Engine, method, path, body string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestHandler_CRUD(t *testing.T) {
	svc, alice, bob := newService(t)
	r := setupTestRouter(svc, alice)
	other := setupTestRouter(svc, bob)

	code, body := doJSONRequest(r, http.MethodPost, "/tasks", `{"title":"Buy milk","due_date":"2026-05-01"}`)
	require.Equal(t, http.StatusCreated, code)
	task := body["data"].(map[string]any)
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "medium", task["priority"])
	assert.Equal(t, "2026-05-01T00:00:00Z", task["due_date"])
	assert.Contains(t, task, "created_at")
	id := int64(task["id"].(float64))
	path := fmt.Sprintf("/tasks/%d", id)

	code, body = doJSONRequest(r, http.MethodPatch, path, `{"description":"2 litres"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2 litres", body["data"].(map[string]any)["description"])

	code, body = doJSONRequest(r, http.MethodPatch, path+"/toggle", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", body["data"].(map[string]any)["status"])

	code, _ = doJSONRequest(other, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = doJSONRequest(other, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSONRequest(r, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, code)

	code, body = doJSONRequest(r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "TASK_NOT_FOUND", body["code"])
}

func TestHandler_List(t *testing.T) {
	svc, alice, _ := newService(t)
	r := setupTestRouter(svc, alice)

	for _, title := range []string{"Buy milk", "Walk dog", "buy bread"} {
		code, _ := doJSONRequest(r, http.MethodPost, "/tasks", fmt.Sprintf(`{"title":%q}`, title))
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := doJSONRequest(r, http.MethodGet, "/tasks?search=BUY&limit=1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"], 1)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, float64(1), pagination["limit"])

	code, body = doJSONRequest(r, http.MethodGet, "/tasks?page=abc&limit=xyz", "")
	require.Equal(t, http.StatusOK, code)
	pagination = body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])

	code, body = doJSONRequest(r, http.MethodGet, "/tasks?status=completed", "")
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, body["data"])
	assert.Empty(t, body["data"])
}

func TestHandler_List_StoreFailure(t *testing.T) {
	repo := new(mockTaskRepo)
	repo.On("List", mock.Anything, int64(1), mock.Anything).Return(nil, int64(0), errors.New("db down"))
	r := setupTestRouter(NewService(repo), 1)

	code, body := doJSONRequest(r, http.MethodGet, "/tasks", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{}, body["data"])
	assert.NotContains(t, body["error"], "db down")
}

func TestHandler_BadInput(t *testing.T) {
	svc, alice, _ := newService(t)
	r := setupTestRouter(svc, alice)

	code, body := doJSONRequest(r, http.MethodGet, "/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	code, body = doJSONRequest(r, http.MethodPost, "/tasks", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "title is required", body["error"])

	code, body = doJSONRequest(r, http.MethodPost, "/tasks", `not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	code, _ = doJSONRequest(r, http.MethodPost, "/tasks", `{"title":"x"}`)
	require.Equal(t, http.StatusCreated, code)

	code, body = doJSONRequest(r, http.MethodPatch, "/tasks/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "no fields to update", body["error"])
}
