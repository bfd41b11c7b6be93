package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/mailer"
	"github.com/leadflowhq/LeadFlow/models"
	"github.com/leadflowhq/LeadFlow/storage"
	"gorm.io/gorm"
)

// DocumentStore is wired at boot; handlers resolve files through it.
var DocumentStore *storage.Store

type ContactInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	LoanAmount   string `json:"loan_amount"`
}

type SubmissionRequest struct {
	ContactInfo ContactInfo `json:"contact_info"`
	Answers     []struct {
		QuestionID uint   `json:"question_id"`
		AnswerText string `json:"answer_text"`
	} `json:"answers"`
}

// SubmitLead persists one questionnaire submission: the lead row and
// every answer row in a single transaction. Either everything lands or
// nothing does.
func SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lead := models.Lead{
		Name:         req.ContactInfo.Name,
		Email:        req.ContactInfo.Email,
		Phone:        req.ContactInfo.Phone,
		BusinessName: req.ContactInfo.BusinessName,
		LoanAmount:   req.ContactInfo.LoanAmount,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lead).Error; err != nil {
			return err
		}
		for _, a := range req.Answers {
			answer := models.Answer{
				LeadID:     lead.ID,
				QuestionID: a.QuestionID,
				AnswerText: a.AnswerText,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logAndRespond500(w, "submit lead", err)
		return
	}

	// Notification is best-effort and must never affect the submission.
	go mailer.NotifyNewLead(&lead)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      lead.ID,
		"message": "Application submitted successfully",
	})
}

// AggregatedAnswer carries the answer together with the question text
// when the question still exists. Answers to deleted questions come
// back with an empty question_text rather than being dropped.
type AggregatedAnswer struct {
	ID           uint   `json:"id"`
	QuestionID   uint   `json:"question_id"`
	AnswerText   string `json:"answer_text"`
	QuestionText string `json:"question_text"`
}

type AggregatedLead struct {
	models.Lead
	AggAnswers []AggregatedAnswer `json:"answers"`
	Documents  []models.Document  `json:"documents"`
}

type LeadSummary struct {
	models.Lead
	DocumentCount int64 `json:"document_count"`
}

// fetchAggregatedLead assembles the admin view of one lead: the row,
// its answers LEFT JOINed with question text, and its documents newest
// first. Three independent reads; staleness between them is tolerable
// within a single view refresh.
func fetchAggregatedLead(id uint) (*AggregatedLead, error) {
	var lead models.Lead
	if err := db.DB.First(&lead, id).Error; err != nil {
		return nil, err
	}

	var answers []AggregatedAnswer
	err := db.DB.Model(&models.Answer{}).
		Select("answers.id, answers.question_id, answers.answer_text, COALESCE(questions.text, '') AS question_text").
		Joins("LEFT JOIN questions ON questions.id = answers.question_id AND questions.deleted_at IS NULL").
		Where("answers.lead_id = ?", id).
		Order("answers.id").
		Scan(&answers).Error
	if err != nil {
		return nil, err
	}

	var documents []models.Document
	if err := db.DB.Where("lead_id = ?", id).Order("created_at DESC").Find(&documents).Error; err != nil {
		return nil, err
	}

	if answers == nil {
		answers = []AggregatedAnswer{}
	}
	if documents == nil {
		documents = []models.Document{}
	}

	return &AggregatedLead{Lead: lead, AggAnswers: answers, Documents: documents}, nil
}

// GetLeads serves both the list view (all leads with a document count,
// newest first) and, with ?id=, the single aggregated lead.
func GetLeads(w http.ResponseWriter, r *http.Request) {
	if idParam := r.URL.Query().Get("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid lead id")
			return
		}
		agg, err := fetchAggregatedLead(uint(id))
		if err == gorm.ErrRecordNotFound {
			respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		if err != nil {
			logAndRespond500(w, "get lead", err)
			return
		}
		respondJSON(w, http.StatusOK, agg)
		return
	}

	var leads []LeadSummary
	err := db.DB.Model(&models.Lead{}).
		Select("leads.*, (SELECT COUNT(*) FROM lead_documents WHERE lead_documents.lead_id = leads.id AND lead_documents.deleted_at IS NULL) AS document_count").
		Order("leads.created_at DESC").
		Scan(&leads).Error
	if err != nil {
		logAndRespond500(w, "list leads", err)
		return
	}
	if leads == nil {
		leads = []LeadSummary{}
	}
	respondJSON(w, http.StatusOK, leads)
}

// LeadPatch holds the admin-editable contact fields. Pointers separate
// "not sent" from "set to empty"; only present fields reach the update.
type LeadPatch struct {
	ID           uint    `json:"id"`
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	BusinessName *string `json:"business_name"`
	LoanAmount   *string `json:"loan_amount"`
}

func UpdateLead(w http.ResponseWriter, r *http.Request) {
	var patch LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.ID == 0 {
		respondError(w, http.StatusBadRequest, "lead id is required")
		return
	}

	var lead models.Lead
	if err := db.DB.First(&lead, patch.ID).Error; err != nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.BusinessName != nil {
		updates["business_name"] = *patch.BusinessName
	}
	if patch.LoanAmount != nil {
		updates["loan_amount"] = *patch.LoanAmount
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&lead).Updates(updates).Error; err != nil {
			logAndRespond500(w, "update lead", err)
			return
		}
		db.DB.First(&lead, patch.ID)
	}
	respondJSON(w, http.StatusOK, lead)
}

// DeleteLead removes the lead, its answers, its document rows and the
// files behind them. Files are unlinked only after the transaction
// commits so a rollback never leaves dangling rows.
func DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid lead id")
		return
	}

	var lead models.Lead
	if err := db.DB.First(&lead, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "lead not found")
		return
	}

	var documents []models.Document
	if err := db.DB.Where("lead_id = ?", lead.ID).Find(&documents).Error; err != nil {
		logAndRespond500(w, "delete lead", err)
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lead_id = ?", lead.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("lead_id = ?", lead.ID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&lead).Error
	})
	if err != nil {
		logAndRespond500(w, "delete lead", err)
		return
	}

	for _, doc := range documents {
		if err := DocumentStore.Remove(doc.StoredFilename); err != nil {
			logFileCleanupError(doc.StoredFilename, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
