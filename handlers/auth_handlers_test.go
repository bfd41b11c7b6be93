package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/leadflowhq/LeadFlow/auth"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"github.com/stretchr/testify/assert"
)

func createAdmin(t *testing.T, email, password, role string) *models.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)
	account := &models.Account{
		Email:        email,
		Name:         "Test Admin",
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	db.DB.Create(account)
	return account
}

func TestAuthHandlers(t *testing.T) {
	setupTestDB(t)

	router := mux.NewRouter()
	router.HandleFunc("/admin-login", AdminLogin).Methods("POST")
	router.HandleFunc("/logout", Logout).Methods("POST")
	router.HandleFunc("/admin-leads", auth.AuthMiddleware(GetLeads)).Methods("GET")

	admin := createAdmin(t, "admin@leadflow.test", "correct-horse-battery", "admin")
	createAdmin(t, "viewer@leadflow.test", "viewer-password-1", "user")

	login := func(username, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"username": username, "password": password})
		req, _ := http.NewRequest("POST", "/admin-login", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	guarded := func(token string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", "/admin-leads", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("LoginIssuesToken", func(t *testing.T) {
		rr := login("admin@leadflow.test", "correct-horse-battery")
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success bool   `json:"success"`
			Token   string `json:"token"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)

		assert.Equal(t, http.StatusOK, guarded(resp.Token).Code)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		rr := login("admin@leadflow.test", "wrong")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("NonAdminRoleCannotLogin", func(t *testing.T) {
		rr := login("viewer@leadflow.test", "viewer-password-1")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("MissingTokenRejected", func(t *testing.T) {
		rr := guarded("")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "unauthorized")
	})

	t.Run("ExpiredSessionDeletedOnUse", func(t *testing.T) {
		session, err := auth.CreateSession(admin)
		assert.NoError(t, err)
		db.DB.Model(session).Update("expires_at", time.Now().Add(-time.Minute))

		rr := guarded(session.Token)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "session expired")

		// The session row is gone, so the same token now fails as plain
		// unauthorized, not expired.
		var count int64
		db.DB.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
		assert.Zero(t, count)

		rr = guarded(session.Token)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "unauthorized")
	})

	t.Run("LogoutInvalidatesToken", func(t *testing.T) {
		rr := login("admin@leadflow.test", "correct-horse-battery")
		var resp struct {
			Token string `json:"token"`
		}
		json.Unmarshal(rr.Body.Bytes(), &resp)
		assert.Equal(t, http.StatusOK, guarded(resp.Token).Code)

		req, _ := http.NewRequest("POST", "/logout", nil)
		req.Header.Set("Authorization", "Bearer "+resp.Token)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		assert.Equal(t, http.StatusUnauthorized, guarded(resp.Token).Code)
	})

	t.Run("DeactivatedAccountRejected", func(t *testing.T) {
		deactivated := createAdmin(t, "gone@leadflow.test", "password-123", "admin")
		session, err := auth.CreateSession(deactivated)
		assert.NoError(t, err)

		db.DB.Model(deactivated).Update("active", false)

		assert.Equal(t, http.StatusUnauthorized, guarded(session.Token).Code)
	})
}
