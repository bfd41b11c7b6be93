package models

import (
	"time"

	"gorm.io/gorm"
)

type Account struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Name         string  `json:"name"`
	GoogleID     *string `gorm:"uniqueIndex" json:"-"`
	Picture      string  `json:"picture,omitempty"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"default:user" json:"role"` // user, admin, super_admin
	Active       bool    `gorm:"default:true" json:"active"`
}

// Session is a server-side bearer session. Expired rows are deleted
// lazily when a request presents them.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Token     string    `gorm:"uniqueIndex" json:"-"`
	AccountID uint      `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Question struct {
	gorm.Model
	Text    string   `json:"text"`
	Type    string   `json:"type"` // multiple_choice, text
	Order   int      `json:"order"`
	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

type Option struct {
	gorm.Model
	QuestionID uint   `json:"question_id"`
	Text       string `json:"text"`
	Order      int    `json:"order"`
}

func (Option) TableName() string { return "question_options" }

type Lead struct {
	gorm.Model
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	BusinessName string     `json:"business_name"`
	LoanAmount   string     `json:"loan_amount"`
	Answers      []Answer   `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	Documents    []Document `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// Answer keeps QuestionID as a soft reference: the question may be
// deleted later and the answer still stands on its own text.
type Answer struct {
	gorm.Model
	LeadID     uint   `gorm:"index" json:"lead_id"`
	QuestionID uint   `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type Document struct {
	gorm.Model
	LeadID           uint   `gorm:"index" json:"lead_id"`
	OriginalFilename string `json:"original_filename"`
	StoredFilename   string `gorm:"uniqueIndex" json:"-"`
	Size             int64  `json:"size"`
	MimeType         string `json:"mime_type"`
}

func (Document) TableName() string { return "lead_documents" }

type Setting struct {
	gorm.Model
	Category string `gorm:"uniqueIndex:idx_settings_category_key" json:"category"`
	Key      string `gorm:"uniqueIndex:idx_settings_category_key" json:"key"`
	Value    string `json:"value"`
	Type     string `json:"type"` // text, number, boolean, json
}

func (Setting) TableName() string { return "site_settings" }
