package entity

import (
	"time"
)

// EmailTemplate is one language variant of a transactional email. Task is the
// immutable business key (e.g. welcome_email); all language variants of a
// template share it, so (Task, LanguageId) is unique and delete/bulk-status
// operations cascade over the whole task.
type EmailTemplate struct {
	Id         string    `db:"id" json:"id"`
	PublicId   string    `db:"public_id" json:"publicId"`
	Task       string    `db:"task" json:"task"`
	LanguageId string    `db:"language_id" json:"languageId"`
	FromEmail  string    `db:"from_email" json:"fromEmail"`
	ReplyTo    string    `db:"reply_to" json:"replyTo"`
	FromName   string    `db:"from_name" json:"fromName"`
	Subject    string    `db:"subject" json:"subject"`
	BodyHTML   string    `db:"body_html" json:"bodyHtml"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

type EmailTemplateFilter struct {
	Task       string
	LanguageId string
	IsActive   *bool
	Search     string
}

// EmailTemplateUpdate covers the mutable template fields. Task and LanguageId
// are identity fields and cannot change after creation.
type EmailTemplateUpdate struct {
	FromEmail *string
	ReplyTo   *string
	FromName  *string
	Subject   *string
	BodyHTML  *string
	IsActive  *bool
}
