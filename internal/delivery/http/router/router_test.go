package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userService "userdesk/internal/application/user"
	"userdesk/internal/delivery/http/handler"
	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/kv"
	"userdesk/internal/infrastructure/repository"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, store kv.Store) http.Handler {
	t.Helper()
	repo := repository.NewUserRepository(repository.NewRecordSlot(store, "", nil), repository.WithLatency(0))
	svc := userService.NewService(repo, nil, nil)
	return Setup(Handlers{User: handler.NewUserHandler(svc, nil)}, Options{})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListSeedsUsers(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, env := do(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var users []user.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
}

func TestUserLifecycle(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, env := do(t, h, http.MethodPost, "/api/users", `{"username":"carol","email":"c@example.com","hobby":"chess"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created user.User
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "carol", created.Username)
	assert.Equal(t, 0, created.Age)
	assert.JSONEq(t, `"chess"`, string(created.Extra["hobby"]))

	rec, env = do(t, h, http.MethodGet, "/api/users/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched user.User
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created, fetched)

	rec, env = do(t, h, http.MethodPatch, "/api/users/"+created.ID, `{"id":"other","age":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated user.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 30, updated.Age)
	assert.Equal(t, "carol", updated.Username)

	rec, _ = do(t, h, http.MethodDelete, "/api/users/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, h, http.MethodDelete, "/api/users/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestCreateBeforeListKeepsSamples(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, _ := do(t, h, http.MethodPost, "/api/users", `{"username":"carol","email":"c@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, h, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []user.User
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 3)
	assert.Equal(t, "carol", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "alice", users[2].Username)
}

func TestNotFound(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, _ := do(t, h, http.MethodGet, "/api/users/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPut, "/api/users/missing", `{"username":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidBody(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, env := do(t, h, http.MethodPost, "/api/users", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestStorageFull(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(1))

	rec, env := do(t, h, http.MethodPost, "/api/users", `{"username":"carol"}`)
	assert.Equal(t, http.StatusInsufficientStorage, rec.Code)
	assert.False(t, env.Success)
}

func TestLoadWithoutRemote(t *testing.T) {
	h := setupRouter(t, kv.NewMemoryStore(0))

	rec, env := do(t, h, http.MethodPost, "/api/users/load", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.LoadResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, userService.SourceLocal, resp.Source)
	assert.Len(t, resp.Users, 2)
}
