package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"gorm.io/gorm"
)

// ListQuestions is the public questionnaire feed: questions in display
// order, each with its options in display order.
func ListQuestions(w http.ResponseWriter, r *http.Request) {
	var questions []models.Question
	err := db.DB.
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(`"order"`)
		}).
		Order(`"order"`).
		Find(&questions).Error
	if err != nil {
		logAndRespond500(w, "list questions", err)
		return
	}
	respondJSON(w, http.StatusOK, questions)
}

func CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var question models.Question
	if err := json.NewDecoder(r.Body).Decode(&question); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if question.Text == "" {
		respondError(w, http.StatusBadRequest, "question text is required")
		return
	}
	if question.Type != "multiple_choice" && question.Type != "text" {
		respondError(w, http.StatusBadRequest, "question type must be multiple_choice or text")
		return
	}

	if err := db.DB.Create(&question).Error; err != nil {
		logAndRespond500(w, "create question", err)
		return
	}
	respondJSON(w, http.StatusCreated, question)
}

// UpdateQuestion replaces the question's text, type, order and options
// wholesale. Options are recreated; answers are untouched since they
// only soft-reference the question id.
func UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var payload models.Question
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var question models.Question
	if err := db.DB.First(&question, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		question.Text = payload.Text
		question.Type = payload.Type
		question.Order = payload.Order
		if err := tx.Save(&question).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for i := range payload.Options {
			payload.Options[i].ID = 0
			payload.Options[i].QuestionID = question.ID
		}
		if len(payload.Options) > 0 {
			if err := tx.Create(&payload.Options).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logAndRespond500(w, "update question", err)
		return
	}

	question.Options = payload.Options
	respondJSON(w, http.StatusOK, question)
}

// DeleteQuestion removes the question and its options. Existing answers
// keep their question id and survive as orphaned (but still readable)
// history.
func DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var question models.Question
	if err := db.DB.First(&question, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "question not found")
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&question).Error
	})
	if err != nil {
		logAndRespond500(w, "delete question", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
