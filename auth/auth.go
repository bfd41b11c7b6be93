package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"os"
	"time"

	"github.com/antonlindstrom/pgstore"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"golang.org/x/crypto/bcrypt"
)

const SessionTTL = 24 * time.Hour

var (
	// Store backs the browser cookie surface used by the Google OAuth flow.
	// The JSON API uses bearer sessions from the sessions table instead.
	Store *pgstore.PGStore

	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

func InitStore() {
	var err error
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	Store, err = pgstore.NewPGStore(connStr, []byte(os.Getenv("SESSION_KEY")))
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// CreateSession issues a bearer token for the account, valid for SessionTTL.
func CreateSession(account *models.Account) (*models.Session, error) {
	session := &models.Session{
		Token:     generateToken(),
		AccountID: account.ID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := db.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// VerifySession resolves a bearer token to its account. Expired sessions
// are deleted on detection, so a token is rejected identically on every
// call after its expiry.
func VerifySession(token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	var session models.Session
	if err := db.DB.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, ErrInvalidSession
	}

	if time.Now().After(session.ExpiresAt) {
		db.DB.Delete(&session)
		return nil, ErrSessionExpired
	}

	var account models.Account
	if err := db.DB.First(&account, session.AccountID).Error; err != nil {
		return nil, ErrInvalidSession
	}
	if !account.Active {
		return nil, ErrInvalidSession
	}
	return &account, nil
}

func DeleteSession(token string) error {
	return db.DB.Where("token = ?", token).Delete(&models.Session{}).Error
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := db.DB.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
