package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/leadflowhq/LeadFlow/auth"
	"github.com/leadflowhq/LeadFlow/config"
)

// AdminLogin verifies credentials against the account store and issues
// a 24-hour bearer session. Username is the account email.
func AdminLogin(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if credentials.Username == "" || credentials.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	account, err := auth.GetAccountByEmail(credentials.Username)
	if err != nil || !auth.CheckPasswordHash(credentials.Password, account.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if !account.Active || (account.Role != "admin" && account.Role != "super_admin") {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session, err := auth.CreateSession(account)
	if err != nil {
		logAndRespond500(w, "create session", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   session.Token,
	})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.BearerToken(r); token != "" {
		if err := auth.DeleteSession(token); err != nil {
			log.Printf("logout: %v", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GoogleLogin starts the browser OAuth flow for admin sign-in.
func GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if config.GoogleOauthConfig.ClientID == "" || config.GoogleOauthConfig.ClientSecret == "" {
		respondError(w, http.StatusInternalServerError, "OAuth is not configured")
		return
	}
	state := config.GenerateStateOauthCookie(w)
	url := config.GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback upserts the Google account and hands the browser a
// bearer token through the cookie session so the admin UI can pick it
// up after the redirect.
func GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if err := config.VerifyStateOauthCookie(r); err != nil {
		respondError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	code := r.FormValue("code")
	token, err := config.GoogleOauthConfig.Exchange(r.Context(), code)
	if err != nil {
		logAndRespond500(w, "oauth exchange", err)
		return
	}

	account, err := auth.GetGoogleUserInfo(token.AccessToken)
	if err != nil {
		logAndRespond500(w, "google user info", err)
		return
	}
	if err := auth.CreateOrUpdateAccount(account); err != nil {
		logAndRespond500(w, "upsert account", err)
		return
	}

	session, err := auth.CreateSession(account)
	if err != nil {
		logAndRespond500(w, "create session", err)
		return
	}

	cookieSession, err := auth.Store.New(r, "leadflow-session")
	if err != nil {
		logAndRespond500(w, "cookie session", err)
		return
	}
	cookieSession.Values["authenticated"] = true
	cookieSession.Values["token"] = session.Token
	if err := cookieSession.Save(r, w); err != nil {
		logAndRespond500(w, "save cookie session", err)
		return
	}

	http.Redirect(w, r, config.Getenv("ADMIN_REDIRECT_URL", "http://localhost:3000/admin"), http.StatusSeeOther)
}
