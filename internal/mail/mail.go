package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

type Config struct {
	APIKey         string        `mapstructure:"sendgrid_api_key"`
	FromEmail      string        `mapstructure:"from_email"`
	FromName       string        `mapstructure:"from_email_name"`
	ReplyTo        string        `mapstructure:"reply_to"`
	WorkerInterval time.Duration `mapstructure:"worker_interval"`
}

// Mailer renders stored email templates and delivers them through the outbox:
// every message is persisted first, sent best-effort, and retried by the
// worker until it goes out.
type Mailer struct {
	cli    dependency.Sender
	repo   dependency.Repository
	c      *Config
	ctx    context.Context
	cancel context.CancelFunc
}

func New(c *Config, cli dependency.Sender, repo dependency.Repository) (dependency.Mailer, error) {
	if c.FromEmail == "" || c.FromName == "" {
		return nil, fmt.Errorf("incomplete mailer config: %+v", c)
	}
	if c.WorkerInterval <= 0 {
		c.WorkerInterval = time.Minute
	}
	return &Mailer{
		cli:  cli,
		repo: repo,
		c:    c,
	}, nil
}

// template lookup falls back to the default language when the task has no
// variant for the requested one.
func (m *Mailer) templateFor(ctx context.Context, task, languageId string) (*entity.EmailTemplate, error) {
	tpl, err := m.repo.EmailTemplates().GetByTaskAndLanguage(ctx, task, languageId)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	def, err := m.repo.Languages().GetDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("no template for task %q and no default language: %w", task, err)
	}
	tpl, err = m.repo.EmailTemplates().GetByTaskAndLanguage(ctx, task, def.Id)
	if err != nil {
		return nil, fmt.Errorf("no template for task %q: %w", task, err)
	}
	return tpl, nil
}

// render substitutes {{key}} placeholders in the stored subject and body.
func render(s string, data map[string]string) string {
	if len(data) == 0 {
		return s
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// EnqueueTask renders the stored template for the task in the given language
// and adds the message to the outbox. Delivery is attempted immediately;
// failures are left for the worker to retry.
func (m *Mailer) EnqueueTask(ctx context.Context, task, languageId, to string, data map[string]string) error {
	if strings.TrimSpace(to) == "" {
		return apperr.Validation("recipient is required for task %q", task)
	}

	tpl, err := m.templateFor(ctx, task, languageId)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.NotFound("no template for task %q", task)
		}
		return err
	}
	if !tpl.IsActive {
		slog.Default().InfoContext(ctx, "skipping mail for inactive template",
			slog.String("task", task),
		)
		return nil
	}

	rec := &entity.MailRecord{
		To:        to,
		FromEmail: firstNonEmpty(tpl.FromEmail, m.c.FromEmail),
		FromName:  firstNonEmpty(tpl.FromName, m.c.FromName),
		ReplyTo:   firstNonEmpty(tpl.ReplyTo, m.c.ReplyTo),
		Subject:   render(tpl.Subject, data),
		BodyHTML:  render(tpl.BodyHTML, data),
	}

	id, err := m.repo.Mail().AddMail(ctx, rec)
	if err != nil {
		return fmt.Errorf("can't insert mail: %w", err)
	}
	rec.Id = id

	if err := m.cli.Send(ctx, rec); err != nil {
		// left unsent, the worker retries it
		slog.Default().ErrorContext(ctx, "can't send mail",
			slog.String("err", err.Error()),
			slog.String("task", task),
		)
		return nil
	}

	if err := m.repo.Mail().UpdateSent(ctx, id); err != nil {
		return fmt.Errorf("can't mark mail sent: %w", err)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
