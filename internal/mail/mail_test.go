package mail

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// fakeRepo implements only the parts of the repository the mailer touches;
// the embedded interface panics on anything else.
type fakeRepo struct {
	dependency.Repository
	mails     *outbox
	templates []entity.EmailTemplate
	defLang   *entity.Language
}

func (f *fakeRepo) Mail() dependency.Mail                     { return f.mails }
func (f *fakeRepo) EmailTemplates() dependency.EmailTemplates { return &fakeTemplates{repo: f} }
func (f *fakeRepo) Languages() dependency.Languages           { return &fakeLanguages{repo: f} }

type fakeTemplates struct {
	dependency.EmailTemplates
	repo *fakeRepo
}

func (f *fakeTemplates) GetByTaskAndLanguage(_ context.Context, task, languageId string) (*entity.EmailTemplate, error) {
	for i := range f.repo.templates {
		if f.repo.templates[i].Task == task && f.repo.templates[i].LanguageId == languageId {
			return &f.repo.templates[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeLanguages struct {
	dependency.Languages
	repo *fakeRepo
}

func (f *fakeLanguages) GetDefault(context.Context) (*entity.Language, error) {
	if f.repo.defLang == nil {
		return nil, apperr.ErrNotFound
	}
	return f.repo.defLang, nil
}

type outbox struct {
	records []entity.MailRecord
}

func (o *outbox) AddMail(_ context.Context, rec *entity.MailRecord) (string, error) {
	r := *rec
	r.Id = fmt.Sprintf("mail-%d", len(o.records)+1)
	o.records = append(o.records, r)
	return r.Id, nil
}

func (o *outbox) GetAllUnsent(_ context.Context, withError bool) ([]entity.MailRecord, error) {
	var out []entity.MailRecord
	for _, r := range o.records {
		if r.Sent {
			continue
		}
		if !withError && r.ErrMsg != "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (o *outbox) UpdateSent(_ context.Context, id string) error {
	for i := range o.records {
		if o.records[i].Id == id {
			o.records[i].Sent = true
			return nil
		}
	}
	return fmt.Errorf("not found: %s", id)
}

func (o *outbox) AddError(_ context.Context, id, errMsg string) error {
	for i := range o.records {
		if o.records[i].Id == id {
			o.records[i].ErrMsg = errMsg
			return nil
		}
	}
	return fmt.Errorf("not found: %s", id)
}

type fakeSender struct {
	fail bool
	sent []entity.MailRecord
}

func (s *fakeSender) Send(_ context.Context, rec *entity.MailRecord) error {
	if s.fail {
		return fmt.Errorf("delivery refused")
	}
	s.sent = append(s.sent, *rec)
	return nil
}

func newMailerFixture(t *testing.T, sender dependency.Sender) (*Mailer, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{
		mails:   &outbox{},
		defLang: &entity.Language{Id: "lang-en", FolderCode: "en", IsDefault: true, IsActive: true},
		templates: []entity.EmailTemplate{
			{
				Task:       "welcome_email",
				LanguageId: "lang-en",
				FromEmail:  "noreply@example.com",
				FromName:   "Platform",
				Subject:    "Welcome {{name}}",
				BodyHTML:   "<p>Hello {{name}}, your code is {{code}}</p>",
				IsActive:   true,
			},
		},
	}
	m, err := New(&Config{
		FromEmail:      "fallback@example.com",
		FromName:       "Fallback",
		WorkerInterval: time.Minute,
	}, sender, repo)
	require.NoError(t, err)
	return m.(*Mailer), repo
}

func TestEnqueueTaskRendersAndSends(t *testing.T) {
	sender := &fakeSender{}
	m, repo := newMailerFixture(t, sender)

	err := m.EnqueueTask(context.Background(), "welcome_email", "lang-en", "user@example.com", map[string]string{
		"name": "Ada",
		"code": "1234",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Welcome Ada", sender.sent[0].Subject)
	assert.Equal(t, "<p>Hello Ada, your code is 1234</p>", sender.sent[0].BodyHTML)
	assert.Equal(t, "noreply@example.com", sender.sent[0].FromEmail)

	require.Len(t, repo.mails.records, 1)
	assert.True(t, repo.mails.records[0].Sent)
}

func TestEnqueueTaskFallsBackToDefaultLanguage(t *testing.T) {
	sender := &fakeSender{}
	m, _ := newMailerFixture(t, sender)

	err := m.EnqueueTask(context.Background(), "welcome_email", "lang-es", "user@example.com", nil)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Welcome {{name}}", sender.sent[0].Subject, "nil data leaves placeholders untouched")
}

func TestEnqueueTaskUnknownTask(t *testing.T) {
	m, _ := newMailerFixture(t, &fakeSender{})

	err := m.EnqueueTask(context.Background(), "no_such_task", "lang-en", "user@example.com", nil)
	assert.Error(t, err)
}

func TestEnqueueTaskFailedSendStaysInOutbox(t *testing.T) {
	sender := &fakeSender{fail: true}
	m, repo := newMailerFixture(t, sender)
	ctx := context.Background()

	require.NoError(t, m.EnqueueTask(ctx, "welcome_email", "lang-en", "user@example.com", nil))

	require.Len(t, repo.mails.records, 1)
	assert.False(t, repo.mails.records[0].Sent)

	// The worker retries and records the failure.
	require.NoError(t, m.handleUnsent(ctx))
	assert.Equal(t, "delivery refused", repo.mails.records[0].ErrMsg)

	// Once delivery recovers the worker drains the outbox.
	sender.fail = false
	require.NoError(t, m.handleUnsent(ctx))
	assert.True(t, repo.mails.records[0].Sent)
}

func TestEnqueueTaskSkipsInactiveTemplate(t *testing.T) {
	sender := &fakeSender{}
	m, repo := newMailerFixture(t, sender)
	repo.templates[0].IsActive = false

	require.NoError(t, m.EnqueueTask(context.Background(), "welcome_email", "lang-en", "user@example.com", nil))
	assert.Empty(t, sender.sent)
	assert.Empty(t, repo.mails.records)
}
