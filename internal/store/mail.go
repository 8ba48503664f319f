package store

import (
	"context"
	"fmt"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type mailStore struct {
	*PGStore
}

// Mail returns an object implementing the Mail interface.
func (ps *PGStore) Mail() dependency.Mail {
	return &mailStore{
		PGStore: ps,
	}
}

func (ms *mailStore) AddMail(ctx context.Context, rec *entity.MailRecord) (string, error) {
	type idRow struct {
		Id string `db:"id"`
	}
	row, err := QueryNamedOne[idRow](ctx, ms.db, `INSERT INTO mail_outbox
		(to_email, from_email, from_name, reply_to, subject, body_html)
		VALUES (:toEmail, :fromEmail, :fromName, :replyTo, :subject, :bodyHtml)
		RETURNING id`, map[string]any{
		"toEmail":   rec.To,
		"fromEmail": rec.FromEmail,
		"fromName":  rec.FromName,
		"replyTo":   rec.ReplyTo,
		"subject":   rec.Subject,
		"bodyHtml":  rec.BodyHTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to add mail: %w", err)
	}
	return row.Id, nil
}

// GetAllUnsent returns pending outbox rows; withError includes records whose
// previous delivery attempt failed.
func (ms *mailStore) GetAllUnsent(ctx context.Context, withError bool) ([]entity.MailRecord, error) {
	query := `SELECT id, to_email, from_email, from_name, reply_to, subject, body_html, sent, sent_at, err_msg, created_at
		FROM mail_outbox WHERE sent = FALSE`
	if !withError {
		query += ` AND err_msg = ''`
	}
	query += ` ORDER BY created_at ASC`

	recs, err := QueryListNamed[entity.MailRecord](ctx, ms.db, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to get unsent mail: %w", err)
	}
	return recs, nil
}

func (ms *mailStore) UpdateSent(ctx context.Context, id string) error {
	n, err := ExecNamedRows(ctx, ms.db, `UPDATE mail_outbox SET sent = TRUE, sent_at = now(), err_msg = '' WHERE id = :id`, map[string]any{
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("failed to mark mail sent: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mail record not found: %s", id)
	}
	return nil
}

func (ms *mailStore) AddError(ctx context.Context, id string, errMsg string) error {
	n, err := ExecNamedRows(ctx, ms.db, `UPDATE mail_outbox SET err_msg = :errMsg WHERE id = :id`, map[string]any{
		"id":     id,
		"errMsg": errMsg,
	})
	if err != nil {
		return fmt.Errorf("failed to store mail error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mail record not found: %s", id)
	}
	return nil
}
