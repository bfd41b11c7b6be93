// Package mailer sends the new-application notification. It is a
// best-effort side channel: a failure is logged and never propagated
// back into the submission transaction.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"os"

	"github.com/leadflowhq/LeadFlow/models"
)

func configured() bool {
	return os.Getenv("SMTP_HOST") != "" && os.Getenv("SMTP_TO") != ""
}

// NotifyNewLead emails the configured recipient about a fresh
// submission. Call it from a goroutine after the transaction commits.
func NotifyNewLead(lead *models.Lead) {
	if !configured() {
		return
	}

	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	to := os.Getenv("SMTP_TO")

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	body := fmt.Sprintf(
		"Subject: New loan application #%d\r\nFrom: %s\r\nTo: %s\r\n\r\n"+
			"Name: %s\r\nEmail: %s\r\nPhone: %s\r\nBusiness: %s\r\nRequested amount: %s\r\n",
		lead.ID, from, to, lead.Name, lead.Email, lead.Phone, lead.BusinessName, lead.LoanAmount)

	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(body)); err != nil {
		log.Printf("mailer: notification for lead %d failed: %v", lead.ID, err)
	}
}
