package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mathieu/apply-pilot/internal/config"
)

func newTestAuthHandler(t *testing.T, password string) *AuthHandler {
	t.Helper()

	passwords := &config.PasswordConfig{BcryptCost: bcrypt.MinCost}
	hash, err := passwords.HashPassword(password)
	require.NoError(t, err)
	passwords.AdminHash = hash

	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 1,
	})
	return NewAuthHandler(passwords, jwtService)
}

func TestLogin_Success(t *testing.T) {
	h := newTestAuthHandler(t, "hunter2")

	body := `{"password": "hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The returned token must pass the server's own validation
	assert.NoError(t, h.jwtService.ValidateToken(resp.Token))
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestAuthHandler(t, "hunter2")

	body := `{"password": "not-the-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid password")
}

func TestLogin_MissingPassword(t *testing.T) {
	h := newTestAuthHandler(t, "hunter2")

	body := `{}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestLogin_InvalidJSON(t *testing.T) {
	h := newTestAuthHandler(t, "hunter2")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{invalid`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
