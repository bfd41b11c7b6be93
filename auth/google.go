package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
)

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

func GetGoogleUserInfo(token string) (*models.Account, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %s", err.Error())
	}
	defer resp.Body.Close()

	var googleUser GoogleUserInfo
	if err = json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, fmt.Errorf("failed decoding user info: %s", err.Error())
	}

	account := &models.Account{
		GoogleID: &googleUser.ID,
		Email:    googleUser.Email,
		Name:     googleUser.Name,
		Picture:  googleUser.Picture,
		Active:   true,
	}

	return account, nil
}

// CreateOrUpdateAccount upserts a Google-backed account by its Google id.
// Role is never touched here; a fresh account starts as plain "user" and
// must be promoted by a super_admin before it can reach admin surfaces.
func CreateOrUpdateAccount(account *models.Account) error {
	var existing models.Account
	result := db.DB.Where("google_id = ?", account.GoogleID).First(&existing)
	if result.Error != nil {
		if err := db.DB.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %s", err.Error())
		}
	} else {
		existing.Name = account.Name
		existing.Email = account.Email
		existing.Picture = account.Picture
		if err := db.DB.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update account: %s", err.Error())
		}
		*account = existing
	}
	return nil
}
