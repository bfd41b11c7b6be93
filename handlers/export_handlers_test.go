package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
	"github.com/stretchr/testify/assert"
)

func TestExportLeads(t *testing.T) {
	setupTestDB(t)

	router := mux.NewRouter()
	router.HandleFunc("/admin-leads-export", ExportLeads).Methods("GET")

	loanType := models.Question{Text: "Loan type?", Type: "multiple_choice", Order: 1}
	revenue := models.Question{Text: "Annual revenue?", Type: "text", Order: 2}
	db.DB.Create(&loanType)
	db.DB.Create(&revenue)

	first := models.Lead{Name: "First Corp", Email: "first@x.com"}
	db.DB.Create(&first)
	db.DB.Create(&models.Answer{LeadID: first.ID, QuestionID: loanType.ID, AnswerText: "Term Loan"})

	second := models.Lead{Name: "Second LLC", Email: "second@x.com"}
	db.DB.Create(&second)
	db.DB.Create(&models.Answer{LeadID: second.ID, QuestionID: revenue.ID, AnswerText: "$1M"})

	req, _ := http.NewRequest("GET",
		fmt.Sprintf("/admin-leads-export?ids=%d,%d", first.ID, second.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))

	records, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 3)

	header := records[0]
	// Columns are the union of question texts across the whole batch.
	assert.Contains(t, header, "Loan type?")
	assert.Contains(t, header, "Annual revenue?")

	columnIndex := map[string]int{}
	for i, name := range header {
		columnIndex[name] = i
	}

	firstRow := records[1]
	secondRow := records[2]
	assert.Equal(t, "First Corp", firstRow[columnIndex["Name"]])
	assert.Equal(t, "Term Loan", firstRow[columnIndex["Loan type?"]])
	assert.Equal(t, "", firstRow[columnIndex["Annual revenue?"]])
	assert.Equal(t, "", secondRow[columnIndex["Loan type?"]])
	assert.Equal(t, "$1M", secondRow[columnIndex["Annual revenue?"]])
}
