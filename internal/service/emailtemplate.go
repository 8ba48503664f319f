package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	v "github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// EmailTemplate implements the email-template module. Templates are keyed by
// an immutable task; delete and bulk status operations cascade over every
// language variant sharing the task.
type EmailTemplate struct {
	repo     dependency.Repository
	cache    dependency.Cache
	language *Language
}

func NewEmailTemplate(repo dependency.Repository, c dependency.Cache, language *Language) *EmailTemplate {
	return &EmailTemplate{
		repo:     repo,
		cache:    c,
		language: language,
	}
}

func validateTemplate(tpl entity.EmailTemplate) error {
	if strings.TrimSpace(tpl.Task) == "" {
		return apperr.Validation("template task is required")
	}
	if !v.IsEmail(tpl.FromEmail) {
		return apperr.Validation("invalid sender email %q", tpl.FromEmail)
	}
	if tpl.ReplyTo != "" && !v.IsEmail(tpl.ReplyTo) {
		return apperr.Validation("invalid reply-to email %q", tpl.ReplyTo)
	}
	if strings.TrimSpace(tpl.Subject) == "" {
		return apperr.Validation("template subject is required")
	}
	if strings.TrimSpace(tpl.BodyHTML) == "" {
		return apperr.Validation("template body is required")
	}
	return nil
}

// Create stores a template. With a language token it creates the single
// variant for that language; without one it creates a variant per active
// language, all sharing the task.
func (es *EmailTemplate) Create(ctx context.Context, tpl entity.EmailTemplate, languageToken string) ([]entity.EmailTemplate, error) {
	if err := validateTemplate(tpl); err != nil {
		return nil, err
	}

	var targets []entity.Language
	if languageToken != "" {
		lang, err := es.language.Resolve(ctx, languageToken)
		if err != nil {
			return nil, err
		}
		targets = []entity.Language{*lang}
	} else {
		langs, err := es.repo.Languages().ListActive(ctx)
		if err != nil {
			return nil, apperr.OperationFailed(err, "failed to list active languages")
		}
		if len(langs) == 0 {
			return nil, apperr.Validation("no active languages to create the template for")
		}
		targets = langs
	}

	tpls := make([]entity.EmailTemplate, 0, len(targets))
	for _, lang := range targets {
		t := tpl
		t.PublicId = uuid.NewString()
		t.LanguageId = lang.Id
		tpls = append(tpls, t)
	}

	created, err := es.repo.EmailTemplates().InsertMany(ctx, tpls)
	if err != nil {
		if es.repo.IsErrUniqueViolation(err) {
			return nil, apperr.AlreadyExists("template for task %q already exists", tpl.Task)
		}
		return nil, apperr.OperationFailed(err, "failed to create email template")
	}

	invalidate(ctx, es.cache, cacheTemplate)
	return created, nil
}

func (es *EmailTemplate) Get(ctx context.Context, publicId string) (*entity.EmailTemplate, error) {
	tpl, err := es.repo.EmailTemplates().GetByPublicId(ctx, publicId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("email template %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to get email template")
	}
	return tpl, nil
}

func (es *EmailTemplate) List(ctx context.Context, filter entity.EmailTemplateFilter, opts entity.ListOptions) ([]entity.EmailTemplate, entity.Pagination, error) {
	tpls, pg, err := es.repo.EmailTemplates().List(ctx, filter, opts)
	if err != nil {
		return nil, entity.Pagination{}, apperr.OperationFailed(err, "failed to list email templates")
	}
	return tpls, pg, nil
}

// Update mutates non-identity fields only; task and language are fixed at
// creation.
func (es *EmailTemplate) Update(ctx context.Context, publicId string, upd entity.EmailTemplateUpdate) (*entity.EmailTemplate, error) {
	if upd.FromEmail != nil && !v.IsEmail(*upd.FromEmail) {
		return nil, apperr.Validation("invalid sender email %q", *upd.FromEmail)
	}
	if upd.ReplyTo != nil && *upd.ReplyTo != "" && !v.IsEmail(*upd.ReplyTo) {
		return nil, apperr.Validation("invalid reply-to email %q", *upd.ReplyTo)
	}

	if err := es.repo.EmailTemplates().UpdateByPublicId(ctx, publicId, upd); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFound("email template %s not found", publicId)
		}
		return nil, apperr.OperationFailed(err, "failed to update email template")
	}

	invalidate(ctx, es.cache, cacheTemplate)
	return es.Get(ctx, publicId)
}

// Delete resolves the template's task and removes every language variant
// sharing it.
func (es *EmailTemplate) Delete(ctx context.Context, publicId string) (int, error) {
	tpl, err := es.Get(ctx, publicId)
	if err != nil {
		return 0, err
	}

	n, err := es.repo.EmailTemplates().DeleteByTask(ctx, tpl.Task)
	if err != nil {
		return 0, apperr.OperationFailed(err, "failed to delete templates for task %s", tpl.Task)
	}

	invalidate(ctx, es.cache, cacheTemplate)
	return n, nil
}

// resolveTasks maps publicIds to their distinct tasks. Ids that resolve to
// nothing are reported as skipped; two ids naming variants of the same task
// yield the task once.
func (es *EmailTemplate) resolveTasks(ctx context.Context, publicIds []string) ([]string, entity.BulkResult, error) {
	var res entity.BulkResult
	seen := make(map[string]bool, len(publicIds))
	tasks := make([]string, 0, len(publicIds))
	for _, id := range publicIds {
		tpl, err := es.Get(ctx, id)
		switch {
		case err == nil:
			if !seen[tpl.Task] {
				seen[tpl.Task] = true
				tasks = append(tasks, tpl.Task)
			}
		case apperr.IsKind(err, apperr.KindNotFound):
			res.SkippedIds = append(res.SkippedIds, id)
		default:
			return nil, entity.BulkResult{}, err
		}
	}
	return tasks, res, nil
}

// BulkUpdateStatus flips the status of every language variant behind the
// given ids, cascading over each resolved task. Count is the number of rows
// touched.
func (es *EmailTemplate) BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	tasks, res, err := es.resolveTasks(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, err
	}

	for _, task := range tasks {
		n, err := es.repo.EmailTemplates().UpdateStatusByTask(ctx, task, active)
		if err != nil {
			return entity.BulkResult{}, apperr.OperationFailed(err, "failed to update templates for task %s", task)
		}
		res.Count += n
	}

	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk status update skipped email templates",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, es.cache, cacheTemplate)
	return res, nil
}

// BulkDelete removes every language variant behind the given ids, cascading
// over each resolved task.
func (es *EmailTemplate) BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error) {
	tasks, res, err := es.resolveTasks(ctx, publicIds)
	if err != nil {
		return entity.BulkResult{}, err
	}

	for _, task := range tasks {
		n, err := es.repo.EmailTemplates().DeleteByTask(ctx, task)
		if err != nil {
			return entity.BulkResult{}, apperr.OperationFailed(err, "failed to delete templates for task %s", task)
		}
		res.Count += n
	}

	if len(res.SkippedIds) > 0 {
		slog.Default().InfoContext(ctx, "bulk delete skipped email templates",
			slog.Any("skipped", res.SkippedIds),
		)
	}
	invalidate(ctx, es.cache, cacheTemplate)
	return res, nil
}

// UpdateStatus resolves the template's task and flips the status of every
// language variant sharing it.
func (es *EmailTemplate) UpdateStatus(ctx context.Context, publicId string, active bool) (int, error) {
	tpl, err := es.Get(ctx, publicId)
	if err != nil {
		return 0, err
	}

	n, err := es.repo.EmailTemplates().UpdateStatusByTask(ctx, tpl.Task, active)
	if err != nil {
		return 0, apperr.OperationFailed(err, "failed to update templates for task %s", tpl.Task)
	}

	invalidate(ctx, es.cache, cacheTemplate)
	return n, nil
}
