package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/models"
)

// ExportLeads writes the requested leads (?ids=1,2,3 or every lead when
// omitted) as CSV. The column set is the union of every distinct
// question text seen across the batch, so the whole batch is fetched
// before a single row is rendered.
func ExportLeads(w http.ResponseWriter, r *http.Request) {
	var ids []uint
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid lead id list")
				return
			}
			ids = append(ids, uint(id))
		}
	} else {
		var leads []models.Lead
		if err := db.DB.Order("created_at DESC").Find(&leads).Error; err != nil {
			logAndRespond500(w, "export leads", err)
			return
		}
		for _, lead := range leads {
			ids = append(ids, lead.ID)
		}
	}

	// Pass one: fetch everything and collect the question columns in
	// first-seen order.
	var batch []*AggregatedLead
	var columns []string
	seen := map[string]bool{}
	for _, id := range ids {
		agg, err := fetchAggregatedLead(id)
		if err != nil {
			// Skip ids that no longer resolve; the filter may be stale.
			continue
		}
		batch = append(batch, agg)
		for _, answer := range agg.AggAnswers {
			label := answer.QuestionText
			if label == "" {
				label = "Question #" + strconv.FormatUint(uint64(answer.QuestionID), 10)
			}
			if !seen[label] {
				seen[label] = true
				columns = append(columns, label)
			}
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=leads.csv")

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"ID", "Submitted", "Name", "Email", "Phone", "Business", "Loan Amount", "Documents"}
	header = append(header, columns...)
	csvWriter.Write(header)

	// Pass two: fixed-width rows, empty cells for unanswered columns.
	for _, agg := range batch {
		answersByColumn := map[string]string{}
		for _, answer := range agg.AggAnswers {
			label := answer.QuestionText
			if label == "" {
				label = "Question #" + strconv.FormatUint(uint64(answer.QuestionID), 10)
			}
			answersByColumn[label] = answer.AnswerText
		}

		row := []string{
			strconv.FormatUint(uint64(agg.ID), 10),
			agg.CreatedAt.Format("2006-01-02 15:04:05"),
			agg.Name,
			agg.Email,
			agg.Phone,
			agg.BusinessName,
			agg.LoanAmount,
			strconv.Itoa(len(agg.Documents)),
		}
		for _, column := range columns {
			row = append(row, answersByColumn[column])
		}
		csvWriter.Write(row)
	}
}
