package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
)

func newDropdownFixture(t *testing.T) (*fakeRepo, *Dropdown, *entity.Language, *entity.Language) {
	t.Helper()
	repo := newFakeRepo()
	ls := NewLanguage(repo, nil)
	en := seedLanguage(t, ls, "English", "en", "US", "eng", true, true)
	es := seedLanguage(t, ls, "Spanish", "es", "ES", "spa", false, true)
	return repo, NewDropdown(repo, nil, ls), en, es
}

func TestDropdownCreateValidation(t *testing.T) {
	_, ds, _, _ := newDropdownFixture(t)
	ctx := context.Background()

	_, err := ds.Create(ctx, entity.DropdownOption{DropdownType: "account-type", UniqueCode: 1}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing name: %v", err)

	_, err = ds.Create(ctx, entity.DropdownOption{Name: "Individual", UniqueCode: 1}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing type: %v", err)

	_, err = ds.Create(ctx, entity.DropdownOption{Name: "Individual", DropdownType: "account-type"}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing code: %v", err)
}

func TestDropdownCreateResolvesLanguage(t *testing.T) {
	_, ds, en, es := newDropdownFixture(t)
	ctx := context.Background()

	// Empty token lands on the default language.
	opt, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Individual", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, en.Id, opt.LanguageId)

	// Explicit token lands on that language.
	opt, err = ds.Create(ctx, entity.DropdownOption{
		Name: "Particular", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, es.PublicId)
	require.NoError(t, err)
	assert.Equal(t, es.Id, opt.LanguageId)
}

func TestDropdownCreateDuplicateCodePerLanguage(t *testing.T) {
	_, ds, _, es := newDropdownFixture(t)
	ctx := context.Background()

	_, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Individual", DropdownType: "account-type", UniqueCode: 7, IsActive: true,
	}, "")
	require.NoError(t, err)

	// Same code in the same language is rejected.
	_, err = ds.Create(ctx, entity.DropdownOption{
		Name: "Solo", DropdownType: "account-type", UniqueCode: 7, IsActive: true,
	}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))

	// Same code in another language is the translation of the same concept.
	_, err = ds.Create(ctx, entity.DropdownOption{
		Name: "Particular", DropdownType: "account-type", UniqueCode: 7, IsActive: true,
	}, es.PublicId)
	assert.NoError(t, err)
}

func TestDropdownListByTypeFallsBackToDefault(t *testing.T) {
	_, ds, _, es := newDropdownFixture(t)
	ctx := context.Background()

	// Two concepts in the default language, only one translated to Spanish.
	_, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Individual", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, "")
	require.NoError(t, err)
	_, err = ds.Create(ctx, entity.DropdownOption{
		Name: "Company", DropdownType: "account-type", UniqueCode: 2, IsActive: true,
	}, "")
	require.NoError(t, err)
	_, err = ds.Create(ctx, entity.DropdownOption{
		Name: "Particular", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, es.PublicId)
	require.NoError(t, err)

	opts, err := ds.ListByType(ctx, "account-type", es.PublicId)
	require.NoError(t, err)
	require.Len(t, opts, 2)

	byCode := map[int64]string{}
	for _, o := range opts {
		byCode[o.UniqueCode] = o.Name
	}
	assert.Equal(t, "Particular", byCode[1], "translated concept uses the requested language")
	assert.Equal(t, "Company", byCode[2], "untranslated concept falls back to the default language")
}

func TestDropdownDeleteGuardsUseCount(t *testing.T) {
	repo, ds, _, _ := newDropdownFixture(t)
	ctx := context.Background()

	opt, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Individual", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, "")
	require.NoError(t, err)

	require.NoError(t, repo.Dropdowns().IncrementUseCount(ctx, opt.PublicId, 2))
	err = ds.Delete(ctx, opt.PublicId)
	assert.True(t, apperr.IsKind(err, apperr.KindInUse))

	require.NoError(t, repo.Dropdowns().IncrementUseCount(ctx, opt.PublicId, -2))
	require.NoError(t, ds.Delete(ctx, opt.PublicId))
}

func TestDropdownBulkDeleteSkipsInUse(t *testing.T) {
	repo, ds, _, _ := newDropdownFixture(t)
	ctx := context.Background()

	used, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Individual", DropdownType: "account-type", UniqueCode: 1, IsActive: true,
	}, "")
	require.NoError(t, err)
	free, err := ds.Create(ctx, entity.DropdownOption{
		Name: "Company", DropdownType: "account-type", UniqueCode: 2, IsActive: true,
	}, "")
	require.NoError(t, err)

	require.NoError(t, repo.Dropdowns().IncrementUseCount(ctx, used.PublicId, 1))

	res, err := ds.BulkDelete(ctx, []string{used.PublicId, free.PublicId})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []string{used.PublicId}, res.SkippedIds)
}
