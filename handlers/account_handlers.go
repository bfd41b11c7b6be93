package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leadflowhq/LeadFlow/auth"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"gorm.io/gorm"
)

var validate = validator.New()

type accountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin super_admin"`
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver-specific duplicate messages (Postgres 23505, SQLite UNIQUE).
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// CreateAccount registers a back-office account. Role assignment is
// restricted: only a super_admin may create privileged accounts.
func CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	caller := auth.AccountFromContext(r.Context())
	if role != "user" && (caller == nil || caller.Role != "super_admin") {
		respondError(w, http.StatusForbidden, "only a super admin may assign roles")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logAndRespond500(w, "hash password", err)
		return
	}

	account := models.Account{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := db.DB.Create(&account).Error; err != nil {
		if isDuplicateKey(err) {
			respondError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		logAndRespond500(w, "create account", err)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

func ListAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []models.Account
	if err := db.DB.Order("created_at DESC").Find(&accounts).Error; err != nil {
		logAndRespond500(w, "list accounts", err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

type accountPatch struct {
	ID       uint    `json:"id"`
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin super_admin"`
	Active   *bool   `json:"active"`
}

func UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var patch accountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.ID == 0 {
		respondError(w, http.StatusBadRequest, "account id is required")
		return
	}
	if err := validate.Struct(patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid account fields")
		return
	}

	var account models.Account
	if err := db.DB.First(&account, patch.ID).Error; err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}

	caller := auth.AccountFromContext(r.Context())
	if (patch.Role != nil || patch.Active != nil) && (caller == nil || caller.Role != "super_admin") {
		respondError(w, http.StatusForbidden, "only a super admin may change roles or status")
		return
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			logAndRespond500(w, "hash password", err)
			return
		}
		updates["password_hash"] = hash
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&account).Updates(updates).Error; err != nil {
			logAndRespond500(w, "update account", err)
			return
		}
		db.DB.First(&account, patch.ID)
	}
	respondJSON(w, http.StatusOK, account)
}

func DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	caller := auth.AccountFromContext(r.Context())
	if caller != nil && caller.ID == uint(id) {
		respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	var account models.Account
	if err := db.DB.First(&account, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&account).Error
	})
	if err != nil {
		logAndRespond500(w, "delete account", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
