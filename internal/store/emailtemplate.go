package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type emailTemplateStore struct {
	*PGStore
}

// EmailTemplates returns an object implementing the EmailTemplates interface.
func (ps *PGStore) EmailTemplates() dependency.EmailTemplates {
	return &emailTemplateStore{
		PGStore: ps,
	}
}

const emailTemplateColumns = `id, public_id, task, language_id, from_email, reply_to, from_name, subject, body_html, is_active, created_at, updated_at`

func (es *emailTemplateStore) GetByPublicId(ctx context.Context, publicId string) (*entity.EmailTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM email_template WHERE public_id = :publicId`, emailTemplateColumns)
	tpl, err := QueryNamedOne[entity.EmailTemplate](ctx, es.db, query, map[string]any{
		"publicId": publicId,
	})
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (es *emailTemplateStore) GetByTaskAndLanguage(ctx context.Context, task, languageId string) (*entity.EmailTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM email_template WHERE task = :task AND language_id = :languageId`, emailTemplateColumns)
	tpl, err := QueryNamedOne[entity.EmailTemplate](ctx, es.db, query, map[string]any{
		"task":       task,
		"languageId": languageId,
	})
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (es *emailTemplateStore) ListByTask(ctx context.Context, task string) ([]entity.EmailTemplate, error) {
	query := fmt.Sprintf(`SELECT %s FROM email_template WHERE task = :task ORDER BY created_at ASC`, emailTemplateColumns)
	tpls, err := QueryListNamed[entity.EmailTemplate](ctx, es.db, query, map[string]any{
		"task": task,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates by task: %w", err)
	}
	return tpls, nil
}

func emailTemplateWhere(f entity.EmailTemplateFilter) (string, map[string]any) {
	conds := []string{"TRUE"}
	params := map[string]any{}
	if f.Task != "" {
		conds = append(conds, "task = :task")
		params["task"] = f.Task
	}
	if f.LanguageId != "" {
		conds = append(conds, "language_id = :languageId")
		params["languageId"] = f.LanguageId
	}
	if f.IsActive != nil {
		conds = append(conds, "is_active = :isActive")
		params["isActive"] = *f.IsActive
	}
	if f.Search != "" {
		conds = append(conds, "(task ILIKE :search OR subject ILIKE :search OR from_email ILIKE :search)")
		params["search"] = "%" + f.Search + "%"
	}
	return strings.Join(conds, " AND "), params
}

func (es *emailTemplateStore) List(ctx context.Context, filter entity.EmailTemplateFilter, opts entity.ListOptions) ([]entity.EmailTemplate, entity.Pagination, error) {
	opts.Normalize()
	where, params := emailTemplateWhere(filter)

	total, err := QueryCountNamed(ctx, es.db, `SELECT COUNT(*) FROM email_template WHERE `+where, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to count templates: %w", err)
	}

	params["limit"] = opts.Limit
	params["offset"] = opts.Offset
	query := fmt.Sprintf(`SELECT %s FROM email_template WHERE %s ORDER BY task ASC, created_at ASC LIMIT :limit OFFSET :offset`, emailTemplateColumns, where)
	tpls, err := QueryListNamed[entity.EmailTemplate](ctx, es.db, query, params)
	if err != nil {
		return nil, entity.Pagination{}, fmt.Errorf("failed to list templates: %w", err)
	}

	return tpls, entity.NewPagination(total, opts), nil
}

func (es *emailTemplateStore) Insert(ctx context.Context, tpl *entity.EmailTemplate) (*entity.EmailTemplate, error) {
	query := fmt.Sprintf(`INSERT INTO email_template (public_id, task, language_id, from_email, reply_to, from_name, subject, body_html, is_active)
		VALUES (:publicId, :task, :languageId, :fromEmail, :replyTo, :fromName, :subject, :bodyHtml, :isActive)
		RETURNING %s`, emailTemplateColumns)
	inserted, err := QueryNamedOne[entity.EmailTemplate](ctx, es.db, query, map[string]any{
		"publicId":   tpl.PublicId,
		"task":       tpl.Task,
		"languageId": tpl.LanguageId,
		"fromEmail":  tpl.FromEmail,
		"replyTo":    tpl.ReplyTo,
		"fromName":   tpl.FromName,
		"subject":    tpl.Subject,
		"bodyHtml":   tpl.BodyHTML,
		"isActive":   tpl.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert template: %w", err)
	}
	return &inserted, nil
}

// InsertMany creates the given templates inside one transaction; used when a
// template is created for every active language at once.
func (es *emailTemplateStore) InsertMany(ctx context.Context, tpls []entity.EmailTemplate) ([]entity.EmailTemplate, error) {
	inserted := make([]entity.EmailTemplate, 0, len(tpls))
	err := es.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		for i := range tpls {
			t, err := rep.EmailTemplates().Insert(ctx, &tpls[i])
			if err != nil {
				return err
			}
			inserted = append(inserted, *t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}

func (es *emailTemplateStore) UpdateByPublicId(ctx context.Context, publicId string, upd entity.EmailTemplateUpdate) error {
	sets := []string{"updated_at = now()"}
	params := map[string]any{"publicId": publicId}
	if upd.FromEmail != nil {
		sets = append(sets, "from_email = :fromEmail")
		params["fromEmail"] = *upd.FromEmail
	}
	if upd.ReplyTo != nil {
		sets = append(sets, "reply_to = :replyTo")
		params["replyTo"] = *upd.ReplyTo
	}
	if upd.FromName != nil {
		sets = append(sets, "from_name = :fromName")
		params["fromName"] = *upd.FromName
	}
	if upd.Subject != nil {
		sets = append(sets, "subject = :subject")
		params["subject"] = *upd.Subject
	}
	if upd.BodyHTML != nil {
		sets = append(sets, "body_html = :bodyHtml")
		params["bodyHtml"] = *upd.BodyHTML
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = :isActive")
		params["isActive"] = *upd.IsActive
	}

	query := fmt.Sprintf(`UPDATE email_template SET %s WHERE public_id = :publicId`, strings.Join(sets, ", "))
	n, err := ExecNamedRows(ctx, es.db, query, params)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteByTask removes every language variant sharing the task.
func (es *emailTemplateStore) DeleteByTask(ctx context.Context, task string) (int, error) {
	n, err := ExecNamedRows(ctx, es.db, `DELETE FROM email_template WHERE task = :task`, map[string]any{
		"task": task,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete templates by task: %w", err)
	}
	return n, nil
}

// UpdateStatusByTask flips the status of every language variant sharing the
// task.
func (es *emailTemplateStore) UpdateStatusByTask(ctx context.Context, task string, active bool) (int, error) {
	n, err := ExecNamedRows(ctx, es.db, `UPDATE email_template SET is_active = :isActive, updated_at = now() WHERE task = :task`, map[string]any{
		"task":     task,
		"isActive": active,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update template status by task: %w", err)
	}
	return n, nil
}

func (es *emailTemplateStore) Count(ctx context.Context, filter entity.EmailTemplateFilter) (int, error) {
	where, params := emailTemplateWhere(filter)
	return QueryCountNamed(ctx, es.db, `SELECT COUNT(*) FROM email_template WHERE `+where, params)
}
