package entity

import (
	"time"
)

// MailRecord is one outbox row; the mail worker picks up unsent records and
// delivers them through the configured sender.
type MailRecord struct {
	Id        string     `db:"id" json:"id"`
	To        string     `db:"to_email" json:"to"`
	FromEmail string     `db:"from_email" json:"fromEmail"`
	FromName  string     `db:"from_name" json:"fromName"`
	ReplyTo   string     `db:"reply_to" json:"replyTo"`
	Subject   string     `db:"subject" json:"subject"`
	BodyHTML  string     `db:"body_html" json:"bodyHtml"`
	Sent      bool       `db:"sent" json:"sent"`
	SentAt    *time.Time `db:"sent_at" json:"sentAt,omitempty"`
	ErrMsg    string     `db:"err_msg" json:"errMsg,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
}
