package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"gorm.io/gorm/clause"
)

// GetSettings returns site settings, optionally filtered by category.
// Public so the landing page can fetch its content.
func GetSettings(w http.ResponseWriter, r *http.Request) {
	query := db.DB.Order("category, key")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var settings []models.Setting
	if err := query.Find(&settings).Error; err != nil {
		logAndRespond500(w, "get settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpsertSettings takes the whole settings payload and writes it in one
// shot, keyed on (category, key).
func UpsertSettings(w http.ResponseWriter, r *http.Request) {
	var settings []models.Setting
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(settings) == 0 {
		respondError(w, http.StatusBadRequest, "no settings provided")
		return
	}
	for _, setting := range settings {
		if setting.Category == "" || setting.Key == "" {
			respondError(w, http.StatusBadRequest, "category and key are required")
			return
		}
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		logAndRespond500(w, "upsert settings", err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
