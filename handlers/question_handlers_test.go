package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"github.com/stretchr/testify/assert"
)

func TestQuestionHandlers(t *testing.T) {
	setupTestDB(t)

	router := mux.NewRouter()
	router.HandleFunc("/questions", ListQuestions).Methods("GET")
	router.HandleFunc("/admin-questions", CreateQuestion).Methods("POST")
	router.HandleFunc("/admin-questions", UpdateQuestion).Methods("PUT")
	router.HandleFunc("/admin-questions", DeleteQuestion).Methods("DELETE")

	t.Run("CreateQuestionWithOptions", func(t *testing.T) {
		payload := `{
			"text": "What type of financing are you looking for?",
			"type": "multiple_choice",
			"order": 1,
			"options": [
				{"text": "Term Loan", "order": 1},
				{"text": "Line of Credit", "order": 2},
				{"text": "SBA Loan", "order": 3}
			]
		}`
		req, _ := http.NewRequest("POST", "/admin-questions", bytes.NewBufferString(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var created models.Question
		json.Unmarshal(rr.Body.Bytes(), &created)
		assert.NotZero(t, created.ID)
		assert.Len(t, created.Options, 3)
	})

	t.Run("CreateQuestionRejectsBadType", func(t *testing.T) {
		payload := `{"text": "Bad", "type": "dropdown"}`
		req, _ := http.NewRequest("POST", "/admin-questions", bytes.NewBufferString(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("ListQuestionsOrdered", func(t *testing.T) {
		second := models.Question{Text: "How long in business?", Type: "text", Order: 5}
		db.DB.Create(&second)

		req, _ := http.NewRequest("GET", "/questions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var questions []models.Question
		json.Unmarshal(rr.Body.Bytes(), &questions)
		assert.GreaterOrEqual(t, len(questions), 2)
		for i := 1; i < len(questions); i++ {
			assert.LessOrEqual(t, questions[i-1].Order, questions[i].Order)
		}
		for _, q := range questions {
			for i := 1; i < len(q.Options); i++ {
				assert.LessOrEqual(t, q.Options[i-1].Order, q.Options[i].Order)
			}
		}
	})

	t.Run("UpdateQuestionReplacesOptions", func(t *testing.T) {
		question := models.Question{
			Text: "Old text", Type: "multiple_choice", Order: 2,
			Options: []models.Option{{Text: "Old option", Order: 1}},
		}
		db.DB.Create(&question)

		payload := `{
			"text": "New text",
			"type": "multiple_choice",
			"order": 3,
			"options": [{"text": "New A", "order": 1}, {"text": "New B", "order": 2}]
		}`
		req, _ := http.NewRequest("PUT",
			fmt.Sprintf("/admin-questions?id=%d", question.ID), bytes.NewBufferString(payload))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var options []models.Option
		db.DB.Where("question_id = ?", question.ID).Find(&options)
		assert.Len(t, options, 2)

		var updated models.Question
		db.DB.First(&updated, question.ID)
		assert.Equal(t, "New text", updated.Text)
		assert.Equal(t, 3, updated.Order)
	})

	t.Run("DeleteQuestionKeepsAnswers", func(t *testing.T) {
		question := models.Question{
			Text: "Doomed question", Type: "multiple_choice",
			Options: []models.Option{{Text: "Doomed option"}},
		}
		db.DB.Create(&question)

		lead := models.Lead{Name: "Historical"}
		db.DB.Create(&lead)
		answer := models.Answer{LeadID: lead.ID, QuestionID: question.ID, AnswerText: "Kept"}
		db.DB.Create(&answer)

		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/admin-questions?id=%d", question.ID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		var optionCount int64
		db.DB.Model(&models.Option{}).Where("question_id = ?", question.ID).Count(&optionCount)
		assert.Zero(t, optionCount)

		// The answer survives as a soft reference.
		var kept models.Answer
		assert.NoError(t, db.DB.First(&kept, answer.ID).Error)
		assert.Equal(t, question.ID, kept.QuestionID)
	})

	t.Run("DeleteUnknownQuestion", func(t *testing.T) {
		req, _ := http.NewRequest("DELETE", "/admin-questions?id=999999", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
