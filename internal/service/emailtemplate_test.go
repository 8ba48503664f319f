package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
)

func welcomeTemplate() entity.EmailTemplate {
	return entity.EmailTemplate{
		Task:      "welcome_email",
		FromEmail: "noreply@example.com",
		FromName:  "Platform",
		Subject:   "Welcome",
		BodyHTML:  "<p>Hello {{name}}</p>",
		IsActive:  true,
	}
}

func newTemplateFixture(t *testing.T) (*fakeRepo, *EmailTemplate, *entity.Language, *entity.Language) {
	t.Helper()
	repo := newFakeRepo()
	ls := NewLanguage(repo, nil)
	en := seedLanguage(t, ls, "English", "en", "US", "eng", true, true)
	es := seedLanguage(t, ls, "Spanish", "es", "ES", "spa", false, true)
	return repo, NewEmailTemplate(repo, nil, ls), en, es
}

func TestEmailTemplateCreateForAllActiveLanguages(t *testing.T) {
	_, ts, en, es := newTemplateFixture(t)

	created, err := ts.Create(context.Background(), welcomeTemplate(), "")
	require.NoError(t, err)
	require.Len(t, created, 2)

	langIds := []string{created[0].LanguageId, created[1].LanguageId}
	assert.ElementsMatch(t, []string{en.Id, es.Id}, langIds)
	for _, tpl := range created {
		assert.Equal(t, "welcome_email", tpl.Task)
		assert.NotEmpty(t, tpl.PublicId)
	}
}

func TestEmailTemplateCreateSingleLanguage(t *testing.T) {
	_, ts, _, es := newTemplateFixture(t)

	created, err := ts.Create(context.Background(), welcomeTemplate(), es.PublicId)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, es.Id, created[0].LanguageId)
}

func TestEmailTemplateCreateNoActiveLanguages(t *testing.T) {
	repo := newFakeRepo()
	ls := NewLanguage(repo, nil)
	ts := NewEmailTemplate(repo, nil, ls)

	_, err := ts.Create(context.Background(), welcomeTemplate(), "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestEmailTemplateCreateValidation(t *testing.T) {
	_, ts, _, _ := newTemplateFixture(t)
	ctx := context.Background()

	tpl := welcomeTemplate()
	tpl.Task = ""
	_, err := ts.Create(ctx, tpl, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing task: %v", err)

	tpl = welcomeTemplate()
	tpl.FromEmail = "not-an-email"
	_, err = ts.Create(ctx, tpl, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "bad sender: %v", err)

	tpl = welcomeTemplate()
	tpl.BodyHTML = " "
	_, err = ts.Create(ctx, tpl, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "empty body: %v", err)
}

func TestEmailTemplateCreateDuplicateTask(t *testing.T) {
	_, ts, _, es := newTemplateFixture(t)
	ctx := context.Background()

	_, err := ts.Create(ctx, welcomeTemplate(), es.PublicId)
	require.NoError(t, err)

	_, err = ts.Create(ctx, welcomeTemplate(), es.PublicId)
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))
}

func TestEmailTemplateDeleteCascadesOverTask(t *testing.T) {
	repo, ts, _, _ := newTemplateFixture(t)
	ctx := context.Background()

	created, err := ts.Create(ctx, welcomeTemplate(), "")
	require.NoError(t, err)
	require.Len(t, created, 2)

	other := welcomeTemplate()
	other.Task = "password_reset"
	_, err = ts.Create(ctx, other, "")
	require.NoError(t, err)

	// Deleting by any variant's public identifier removes the whole task.
	n, err := ts.Delete(ctx, created[0].PublicId)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := repo.EmailTemplates().ListByTask(ctx, "welcome_email")
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := repo.EmailTemplates().ListByTask(ctx, "password_reset")
	require.NoError(t, err)
	assert.Len(t, kept, 2, "other tasks stay untouched")
}

func TestEmailTemplateBulkUpdateStatus(t *testing.T) {
	repo, ts, _, _ := newTemplateFixture(t)
	ctx := context.Background()

	welcome, err := ts.Create(ctx, welcomeTemplate(), "")
	require.NoError(t, err)
	require.Len(t, welcome, 2)

	reset := welcomeTemplate()
	reset.Task = "password_reset"
	resetVariants, err := ts.Create(ctx, reset, "")
	require.NoError(t, err)

	// Two ids of the same task count that task's variants once, not twice.
	res, err := ts.BulkUpdateStatus(ctx, []string{
		welcome[0].PublicId,
		welcome[1].PublicId,
		resetVariants[0].PublicId,
		"missing-id",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, []string{"missing-id"}, res.SkippedIds)

	for _, task := range []string{"welcome_email", "password_reset"} {
		all, err := repo.EmailTemplates().ListByTask(ctx, task)
		require.NoError(t, err)
		for _, tpl := range all {
			assert.False(t, tpl.IsActive, "task %s", task)
		}
	}
}

func TestEmailTemplateBulkDelete(t *testing.T) {
	repo, ts, _, _ := newTemplateFixture(t)
	ctx := context.Background()

	welcome, err := ts.Create(ctx, welcomeTemplate(), "")
	require.NoError(t, err)

	kept := welcomeTemplate()
	kept.Task = "password_reset"
	_, err = ts.Create(ctx, kept, "")
	require.NoError(t, err)

	res, err := ts.BulkDelete(ctx, []string{welcome[0].PublicId, welcome[1].PublicId})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Empty(t, res.SkippedIds)

	left, err := repo.EmailTemplates().ListByTask(ctx, "welcome_email")
	require.NoError(t, err)
	assert.Empty(t, left)

	stay, err := repo.EmailTemplates().ListByTask(ctx, "password_reset")
	require.NoError(t, err)
	assert.Len(t, stay, 2, "unrelated tasks stay untouched")
}

func TestEmailTemplateUpdateStatusCascadesOverTask(t *testing.T) {
	repo, ts, _, _ := newTemplateFixture(t)
	ctx := context.Background()

	created, err := ts.Create(ctx, welcomeTemplate(), "")
	require.NoError(t, err)

	n, err := ts.UpdateStatus(ctx, created[1].PublicId, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.EmailTemplates().ListByTask(ctx, "welcome_email")
	require.NoError(t, err)
	for _, tpl := range all {
		assert.False(t, tpl.IsActive)
	}
}
