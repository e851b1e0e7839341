package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "dynaform/internal/jwt_token"
	"dynaform/internal/user"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	codec := jwttoken.NewJWTCodec("test-signing-key", time.Hour, "dynaform-test")
	service := NewService(user.NewInMemoryStore(), codec)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	NewHandler(service, logger).Register(r)
	return r
}

func postJSON(t *testing.T, router chi.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRegister(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"User registered successfully"}`, w.Body.String())
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"Ada","email":"ada@example.com","password":"s3cret-pass"}`
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/auth/register", body).Code)

	w := postJSON(t, router, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	w := postJSON(t, router, "/api/auth/register", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLogin(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"s3cret-pass"}`).Code)

	w := postJSON(t, router, "/api/auth/login",
		`{"email":"ada@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusOK, postJSON(t, router, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"s3cret-pass"}`).Code)

	w := postJSON(t, router, "/api/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
