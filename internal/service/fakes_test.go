package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// errUnique marks fake unique-violation errors; the fake repository's
// IsErrUniqueViolation recognizes it like the real backends recognize their
// drivers' duplicate-key errors.
type errUnique struct{ msg string }

func (e errUnique) Error() string { return e.msg }

// fakeRepo is an in-memory dependency.Repository used by the service tests.
type fakeRepo struct {
	languages     []entity.Language
	countries     []entity.Country
	currencies    []entity.Currency
	dropdowns     []entity.DropdownOption
	templates     []entity.EmailTemplate
	subscriptions []entity.RevenueSubscription
	content       []entity.SubscriptionContent
	admins        map[string]string
	mail          []entity.MailRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{admins: map[string]string{}}
}

func (f *fakeRepo) Languages() dependency.Languages           { return (*fakeLanguages)(f) }
func (f *fakeRepo) Countries() dependency.Countries           { return (*fakeCountries)(f) }
func (f *fakeRepo) Currencies() dependency.Currencies         { return (*fakeCurrencies)(f) }
func (f *fakeRepo) Dropdowns() dependency.Dropdowns           { return (*fakeDropdowns)(f) }
func (f *fakeRepo) EmailTemplates() dependency.EmailTemplates { return (*fakeTemplates)(f) }
func (f *fakeRepo) Subscriptions() dependency.Subscriptions   { return (*fakeSubscriptions)(f) }
func (f *fakeRepo) Admin() dependency.Admin                   { return (*fakeAdmin)(f) }
func (f *fakeRepo) Mail() dependency.Mail                     { return (*fakeMail)(f) }

func (f *fakeRepo) Tx(ctx context.Context, fn func(context.Context, dependency.Repository) error) error {
	return fn(ctx, f)
}
func (f *fakeRepo) Now() time.Time                 { return time.Now() }
func (f *fakeRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeRepo) Close()                         {}
func (f *fakeRepo) IsErrUniqueViolation(err error) bool {
	_, ok := err.(errUnique)
	return ok
}

// --- languages ---

type fakeLanguages fakeRepo

func (f *fakeLanguages) GetByPublicId(_ context.Context, publicId string) (*entity.Language, error) {
	for i := range f.languages {
		if f.languages[i].PublicId == publicId {
			l := f.languages[i]
			return &l, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeLanguages) GetById(_ context.Context, id string) (*entity.Language, error) {
	for i := range f.languages {
		if f.languages[i].Id == id {
			l := f.languages[i]
			return &l, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeLanguages) GetByFolderCode(_ context.Context, folderCode string) (*entity.Language, error) {
	for i := range f.languages {
		if f.languages[i].FolderCode == folderCode {
			l := f.languages[i]
			return &l, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeLanguages) GetDefault(_ context.Context) (*entity.Language, error) {
	for i := range f.languages {
		if f.languages[i].IsDefault {
			l := f.languages[i]
			return &l, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeLanguages) ListActive(_ context.Context) ([]entity.Language, error) {
	var out []entity.Language
	for _, l := range f.languages {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLanguages) List(_ context.Context, filter entity.LanguageFilter, opts entity.ListOptions) ([]entity.Language, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.Language
	for _, l := range f.languages {
		if filter.IsActive != nil && l.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsDefault != nil && l.IsDefault != *filter.IsDefault {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, l)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeLanguages) Insert(_ context.Context, lang *entity.Language) (*entity.Language, error) {
	for _, l := range f.languages {
		if l.FolderCode == lang.FolderCode || l.ISO2 == lang.ISO2 || l.ISO3 == lang.ISO3 {
			return nil, errUnique{"duplicate language"}
		}
	}
	l := *lang
	l.Id = uuid.NewString()
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	f.languages = append(f.languages, l)
	return &l, nil
}

func (f *fakeLanguages) UpdateByPublicId(_ context.Context, publicId string, upd entity.LanguageUpdate) error {
	for i := range f.languages {
		if f.languages[i].PublicId != publicId {
			continue
		}
		l := &f.languages[i]
		if upd.Name != nil {
			l.Name = *upd.Name
		}
		if upd.FolderCode != nil {
			l.FolderCode = *upd.FolderCode
		}
		if upd.ISO2 != nil {
			l.ISO2 = *upd.ISO2
		}
		if upd.ISO3 != nil {
			l.ISO3 = *upd.ISO3
		}
		if upd.FlagImage != nil {
			l.FlagImage = *upd.FlagImage
		}
		if upd.Direction != nil {
			l.Direction = *upd.Direction
		}
		if upd.IsDefault != nil {
			l.IsDefault = *upd.IsDefault
		}
		if upd.IsActive != nil {
			l.IsActive = *upd.IsActive
		}
		l.UpdatedAt = time.Now()
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeLanguages) ClearDefault(_ context.Context) error {
	for i := range f.languages {
		f.languages[i].IsDefault = false
	}
	return nil
}

func (f *fakeLanguages) DeleteByPublicId(_ context.Context, publicId string) error {
	for i := range f.languages {
		if f.languages[i].PublicId == publicId {
			f.languages = append(f.languages[:i], f.languages[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeLanguages) Count(ctx context.Context, filter entity.LanguageFilter) (int, error) {
	langs, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit})
	return len(langs), err
}

func (f *fakeLanguages) BulkUpdateStatus(_ context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	var n int
	for i := range f.languages {
		if containsStr(publicIds, f.languages[i].PublicId) {
			f.languages[i].IsActive = active
			n++
		}
	}
	return entity.BulkResult{Count: n}, nil
}

func (f *fakeLanguages) BulkDelete(_ context.Context, publicIds []string) (entity.BulkResult, error) {
	res := entity.BulkResult{}
	var kept []entity.Language
	for _, l := range f.languages {
		switch {
		case !containsStr(publicIds, l.PublicId):
			kept = append(kept, l)
		case l.IsDefault:
			res.SkippedIds = append(res.SkippedIds, l.PublicId)
			kept = append(kept, l)
		default:
			res.Count++
		}
	}
	f.languages = kept
	return res, nil
}

// --- countries ---

type fakeCountries fakeRepo

func (f *fakeCountries) GetByPublicId(_ context.Context, publicId string) (*entity.Country, error) {
	for i := range f.countries {
		if f.countries[i].PublicId == publicId {
			c := f.countries[i]
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeCountries) GetByISO(_ context.Context, code string) (*entity.Country, error) {
	code = strings.ToUpper(code)
	for i := range f.countries {
		if f.countries[i].ISO2 == code || f.countries[i].ISO3 == code {
			c := f.countries[i]
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeCountries) List(_ context.Context, filter entity.CountryFilter, opts entity.ListOptions) ([]entity.Country, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.Country
	for _, c := range f.countries {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsDefault != nil && c.IsDefault != *filter.IsDefault {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, c)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeCountries) Insert(_ context.Context, c *entity.Country) (*entity.Country, error) {
	for _, existing := range f.countries {
		if existing.ISO2 == strings.ToUpper(c.ISO2) || existing.ISO3 == strings.ToUpper(c.ISO3) {
			return nil, errUnique{"duplicate country"}
		}
	}
	cc := *c
	cc.Id = uuid.NewString()
	cc.ISO2 = strings.ToUpper(cc.ISO2)
	cc.ISO3 = strings.ToUpper(cc.ISO3)
	f.countries = append(f.countries, cc)
	return &cc, nil
}

func (f *fakeCountries) UpdateByPublicId(_ context.Context, publicId string, upd entity.CountryUpdate) error {
	for i := range f.countries {
		if f.countries[i].PublicId != publicId {
			continue
		}
		c := &f.countries[i]
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.ISO2 != nil {
			c.ISO2 = strings.ToUpper(*upd.ISO2)
		}
		if upd.ISO3 != nil {
			c.ISO3 = strings.ToUpper(*upd.ISO3)
		}
		if upd.FlagImage != nil {
			c.FlagImage = *upd.FlagImage
		}
		if upd.IsDefault != nil {
			c.IsDefault = *upd.IsDefault
		}
		if upd.IsActive != nil {
			c.IsActive = *upd.IsActive
		}
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeCountries) ClearDefault(_ context.Context) error {
	for i := range f.countries {
		f.countries[i].IsDefault = false
	}
	return nil
}

func (f *fakeCountries) DeleteByPublicId(_ context.Context, publicId string) error {
	for i := range f.countries {
		if f.countries[i].PublicId == publicId {
			f.countries = append(f.countries[:i], f.countries[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeCountries) IncrementUseCount(_ context.Context, publicId string, delta int) error {
	for i := range f.countries {
		if f.countries[i].PublicId == publicId {
			f.countries[i].UseCount += delta
			if f.countries[i].UseCount < 0 {
				f.countries[i].UseCount = 0
			}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeCountries) Count(ctx context.Context, filter entity.CountryFilter) (int, error) {
	cs, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit})
	return len(cs), err
}

func (f *fakeCountries) BulkUpdateStatus(_ context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	var n int
	for i := range f.countries {
		if containsStr(publicIds, f.countries[i].PublicId) {
			f.countries[i].IsActive = active
			n++
		}
	}
	return entity.BulkResult{Count: n}, nil
}

func (f *fakeCountries) BulkDelete(_ context.Context, publicIds []string) (entity.BulkResult, error) {
	res := entity.BulkResult{}
	var kept []entity.Country
	for _, c := range f.countries {
		switch {
		case !containsStr(publicIds, c.PublicId):
			kept = append(kept, c)
		case c.IsDefault || c.UseCount > 0:
			res.SkippedIds = append(res.SkippedIds, c.PublicId)
			kept = append(kept, c)
		default:
			res.Count++
		}
	}
	f.countries = kept
	return res, nil
}

// --- currencies ---

type fakeCurrencies fakeRepo

func (f *fakeCurrencies) GetByPublicId(_ context.Context, publicId string) (*entity.Currency, error) {
	for i := range f.currencies {
		if f.currencies[i].PublicId == publicId {
			c := f.currencies[i]
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeCurrencies) GetByCode(_ context.Context, code string) (*entity.Currency, error) {
	code = strings.ToUpper(code)
	for i := range f.currencies {
		if f.currencies[i].Code == code {
			c := f.currencies[i]
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeCurrencies) List(_ context.Context, filter entity.CurrencyFilter, opts entity.ListOptions) ([]entity.Currency, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.Currency
	for _, c := range f.currencies {
		if filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name+c.Code), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, c)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeCurrencies) Insert(_ context.Context, c *entity.Currency) (*entity.Currency, error) {
	for _, existing := range f.currencies {
		if existing.Code == strings.ToUpper(c.Code) {
			return nil, errUnique{"duplicate currency"}
		}
	}
	cc := *c
	cc.Id = uuid.NewString()
	cc.Code = strings.ToUpper(cc.Code)
	f.currencies = append(f.currencies, cc)
	return &cc, nil
}

func (f *fakeCurrencies) UpdateByPublicId(_ context.Context, publicId string, upd entity.CurrencyUpdate) error {
	for i := range f.currencies {
		if f.currencies[i].PublicId != publicId {
			continue
		}
		c := &f.currencies[i]
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Code != nil {
			c.Code = strings.ToUpper(*upd.Code)
		}
		if upd.Symbol != nil {
			c.Symbol = *upd.Symbol
		}
		if upd.IsActive != nil {
			c.IsActive = *upd.IsActive
		}
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeCurrencies) DeleteByPublicId(_ context.Context, publicId string) error {
	for i := range f.currencies {
		if f.currencies[i].PublicId == publicId {
			f.currencies = append(f.currencies[:i], f.currencies[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeCurrencies) IncrementUseCount(_ context.Context, publicId string, delta int) error {
	for i := range f.currencies {
		if f.currencies[i].PublicId == publicId {
			f.currencies[i].UseCount += delta
			if f.currencies[i].UseCount < 0 {
				f.currencies[i].UseCount = 0
			}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeCurrencies) Count(ctx context.Context, filter entity.CurrencyFilter) (int, error) {
	cs, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit})
	return len(cs), err
}

func (f *fakeCurrencies) BulkUpdateStatus(_ context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	var n int
	for i := range f.currencies {
		if containsStr(publicIds, f.currencies[i].PublicId) {
			f.currencies[i].IsActive = active
			n++
		}
	}
	return entity.BulkResult{Count: n}, nil
}

func (f *fakeCurrencies) BulkDelete(_ context.Context, publicIds []string) (entity.BulkResult, error) {
	res := entity.BulkResult{}
	var kept []entity.Currency
	for _, c := range f.currencies {
		switch {
		case !containsStr(publicIds, c.PublicId):
			kept = append(kept, c)
		case c.UseCount > 0:
			res.SkippedIds = append(res.SkippedIds, c.PublicId)
			kept = append(kept, c)
		default:
			res.Count++
		}
	}
	f.currencies = kept
	return res, nil
}

// --- dropdowns ---

type fakeDropdowns fakeRepo

func (f *fakeDropdowns) GetByPublicId(_ context.Context, publicId string) (*entity.DropdownOption, error) {
	for i := range f.dropdowns {
		if f.dropdowns[i].PublicId == publicId {
			d := f.dropdowns[i]
			return &d, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeDropdowns) GetByCodeAndLanguage(_ context.Context, uniqueCode int64, languageId string) (*entity.DropdownOption, error) {
	for i := range f.dropdowns {
		if f.dropdowns[i].UniqueCode == uniqueCode && f.dropdowns[i].LanguageId == languageId {
			d := f.dropdowns[i]
			return &d, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeDropdowns) ListByTypeForLanguage(ctx context.Context, dropdownType, languageId string) ([]entity.DropdownOption, error) {
	var out []entity.DropdownOption
	covered := map[int64]bool{}
	for _, d := range f.dropdowns {
		if d.DropdownType == dropdownType && d.LanguageId == languageId && d.IsActive {
			out = append(out, d)
			covered[d.UniqueCode] = true
		}
	}
	def, err := (*fakeLanguages)(f).GetDefault(ctx)
	if err == nil && def.Id != languageId {
		for _, d := range f.dropdowns {
			if d.DropdownType == dropdownType && d.LanguageId == def.Id && d.IsActive && !covered[d.UniqueCode] {
				out = append(out, d)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDropdowns) List(_ context.Context, filter entity.DropdownFilter, opts entity.ListOptions) ([]entity.DropdownOption, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.DropdownOption
	for _, d := range f.dropdowns {
		if filter.DropdownType != "" && d.DropdownType != filter.DropdownType {
			continue
		}
		if filter.LanguageId != "" && d.LanguageId != filter.LanguageId {
			continue
		}
		if filter.UniqueCode != nil && d.UniqueCode != *filter.UniqueCode {
			continue
		}
		if filter.IsActive != nil && d.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, d)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeDropdowns) Insert(_ context.Context, opt *entity.DropdownOption) (*entity.DropdownOption, error) {
	for _, d := range f.dropdowns {
		if d.UniqueCode == opt.UniqueCode && d.LanguageId == opt.LanguageId {
			return nil, errUnique{"duplicate dropdown option"}
		}
	}
	dd := *opt
	dd.Id = uuid.NewString()
	f.dropdowns = append(f.dropdowns, dd)
	return &dd, nil
}

func (f *fakeDropdowns) UpdateByPublicId(_ context.Context, publicId string, upd entity.DropdownUpdate) error {
	for i := range f.dropdowns {
		if f.dropdowns[i].PublicId != publicId {
			continue
		}
		if upd.Name != nil {
			f.dropdowns[i].Name = *upd.Name
		}
		if upd.IsActive != nil {
			f.dropdowns[i].IsActive = *upd.IsActive
		}
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeDropdowns) DeleteByPublicId(_ context.Context, publicId string) error {
	for i := range f.dropdowns {
		if f.dropdowns[i].PublicId == publicId {
			f.dropdowns = append(f.dropdowns[:i], f.dropdowns[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeDropdowns) IncrementUseCount(_ context.Context, publicId string, delta int) error {
	for i := range f.dropdowns {
		if f.dropdowns[i].PublicId == publicId {
			f.dropdowns[i].UseCount += delta
			if f.dropdowns[i].UseCount < 0 {
				f.dropdowns[i].UseCount = 0
			}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeDropdowns) Count(ctx context.Context, filter entity.DropdownFilter) (int, error) {
	ds, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit})
	return len(ds), err
}

func (f *fakeDropdowns) BulkUpdateStatus(_ context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	var n int
	for i := range f.dropdowns {
		if containsStr(publicIds, f.dropdowns[i].PublicId) {
			f.dropdowns[i].IsActive = active
			n++
		}
	}
	return entity.BulkResult{Count: n}, nil
}

func (f *fakeDropdowns) BulkDelete(_ context.Context, publicIds []string) (entity.BulkResult, error) {
	res := entity.BulkResult{}
	var kept []entity.DropdownOption
	for _, d := range f.dropdowns {
		switch {
		case !containsStr(publicIds, d.PublicId):
			kept = append(kept, d)
		case d.UseCount > 0:
			res.SkippedIds = append(res.SkippedIds, d.PublicId)
			kept = append(kept, d)
		default:
			res.Count++
		}
	}
	f.dropdowns = kept
	return res, nil
}

// --- email templates ---

type fakeTemplates fakeRepo

func (f *fakeTemplates) GetByPublicId(_ context.Context, publicId string) (*entity.EmailTemplate, error) {
	for i := range f.templates {
		if f.templates[i].PublicId == publicId {
			t := f.templates[i]
			return &t, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeTemplates) GetByTaskAndLanguage(_ context.Context, task, languageId string) (*entity.EmailTemplate, error) {
	for i := range f.templates {
		if f.templates[i].Task == task && f.templates[i].LanguageId == languageId {
			t := f.templates[i]
			return &t, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeTemplates) ListByTask(_ context.Context, task string) ([]entity.EmailTemplate, error) {
	var out []entity.EmailTemplate
	for _, t := range f.templates {
		if t.Task == task {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) List(_ context.Context, filter entity.EmailTemplateFilter, opts entity.ListOptions) ([]entity.EmailTemplate, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.EmailTemplate
	for _, t := range f.templates {
		if filter.Task != "" && t.Task != filter.Task {
			continue
		}
		if filter.LanguageId != "" && t.LanguageId != filter.LanguageId {
			continue
		}
		if filter.IsActive != nil && t.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, t)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeTemplates) Insert(_ context.Context, tpl *entity.EmailTemplate) (*entity.EmailTemplate, error) {
	for _, t := range f.templates {
		if t.Task == tpl.Task && t.LanguageId == tpl.LanguageId {
			return nil, errUnique{"duplicate template"}
		}
	}
	tt := *tpl
	tt.Id = uuid.NewString()
	f.templates = append(f.templates, tt)
	return &tt, nil
}

func (f *fakeTemplates) InsertMany(ctx context.Context, tpls []entity.EmailTemplate) ([]entity.EmailTemplate, error) {
	out := make([]entity.EmailTemplate, 0, len(tpls))
	for i := range tpls {
		t, err := f.Insert(ctx, &tpls[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTemplates) UpdateByPublicId(_ context.Context, publicId string, upd entity.EmailTemplateUpdate) error {
	for i := range f.templates {
		if f.templates[i].PublicId != publicId {
			continue
		}
		t := &f.templates[i]
		if upd.FromEmail != nil {
			t.FromEmail = *upd.FromEmail
		}
		if upd.ReplyTo != nil {
			t.ReplyTo = *upd.ReplyTo
		}
		if upd.FromName != nil {
			t.FromName = *upd.FromName
		}
		if upd.Subject != nil {
			t.Subject = *upd.Subject
		}
		if upd.BodyHTML != nil {
			t.BodyHTML = *upd.BodyHTML
		}
		if upd.IsActive != nil {
			t.IsActive = *upd.IsActive
		}
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeTemplates) DeleteByTask(_ context.Context, task string) (int, error) {
	var kept []entity.EmailTemplate
	var n int
	for _, t := range f.templates {
		if t.Task == task {
			n++
			continue
		}
		kept = append(kept, t)
	}
	f.templates = kept
	return n, nil
}

func (f *fakeTemplates) UpdateStatusByTask(_ context.Context, task string, active bool) (int, error) {
	var n int
	for i := range f.templates {
		if f.templates[i].Task == task {
			f.templates[i].IsActive = active
			n++
		}
	}
	return n, nil
}

func (f *fakeTemplates) Count(ctx context.Context, filter entity.EmailTemplateFilter) (int, error) {
	ts, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit})
	return len(ts), err
}

// --- subscriptions ---

type fakeSubscriptions fakeRepo

func (f *fakeSubscriptions) contentFor(subId, languageId string) []entity.SubscriptionContent {
	var out []entity.SubscriptionContent
	for _, c := range f.content {
		if c.SubscriptionId != subId {
			continue
		}
		if languageId == "" || c.LanguageId == languageId {
			out = append(out, c)
		}
	}
	if languageId != "" && len(out) == 0 {
		def, err := (*fakeLanguages)(f).GetDefault(context.Background())
		if err == nil {
			for _, c := range f.content {
				if c.SubscriptionId == subId && c.LanguageId == def.Id {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func (f *fakeSubscriptions) GetByPublicId(_ context.Context, publicId, languageId string) (*entity.RevenueSubscription, error) {
	for i := range f.subscriptions {
		if f.subscriptions[i].PublicId == publicId {
			s := f.subscriptions[i]
			s.Content = f.contentFor(s.Id, languageId)
			return &s, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeSubscriptions) List(_ context.Context, filter entity.SubscriptionFilter, opts entity.ListOptions, languageId string) ([]entity.RevenueSubscription, entity.Pagination, error) {
	opts.Normalize()
	var out []entity.RevenueSubscription
	for _, s := range f.subscriptions {
		if filter.Kind != nil && s.Kind != *filter.Kind {
			continue
		}
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		s.Content = f.contentFor(s.Id, languageId)
		out = append(out, s)
	}
	total := len(out)
	out = pageOf(out, opts)
	return out, entity.NewPagination(total, opts), nil
}

func (f *fakeSubscriptions) Insert(_ context.Context, sub *entity.RevenueSubscription, content []entity.SubscriptionContent) (*entity.RevenueSubscription, error) {
	s := *sub
	s.Id = uuid.NewString()
	for _, c := range content {
		for _, existing := range f.content {
			if existing.SubscriptionId == s.Id && existing.LanguageId == c.LanguageId {
				return nil, errUnique{"duplicate subscription content"}
			}
		}
		c.Id = uuid.NewString()
		c.SubscriptionId = s.Id
		f.content = append(f.content, c)
	}
	f.subscriptions = append(f.subscriptions, s)
	s.Content = f.contentFor(s.Id, "")
	return &s, nil
}

func (f *fakeSubscriptions) UpdateByPublicId(_ context.Context, publicId string, upd entity.SubscriptionUpdate) error {
	for i := range f.subscriptions {
		if f.subscriptions[i].PublicId != publicId {
			continue
		}
		s := &f.subscriptions[i]
		if upd.Amount != nil {
			s.Amount = *upd.Amount
		}
		if upd.MaxInvestmentAllowed != nil {
			s.MaxInvestmentAllowed = upd.MaxInvestmentAllowed
		}
		if upd.SecondaryMarketAccess != nil {
			s.SecondaryMarketAccess = upd.SecondaryMarketAccess
		}
		if upd.MaxProjectCount != nil {
			s.MaxProjectCount = upd.MaxProjectCount
		}
		if upd.MaxProjectGoal != nil {
			s.MaxProjectGoal = upd.MaxProjectGoal
		}
		if upd.RefundAllowed != nil {
			s.RefundAllowed = *upd.RefundAllowed
		}
		if upd.RefundDays != nil {
			s.RefundDays = *upd.RefundDays
		}
		if upd.CancelAllowed != nil {
			s.CancelAllowed = *upd.CancelAllowed
		}
		if upd.CancelDays != nil {
			s.CancelDays = *upd.CancelDays
		}
		if upd.IsActive != nil {
			s.IsActive = *upd.IsActive
		}
		return nil
	}
	return apperr.ErrNotFound
}

func (f *fakeSubscriptions) UpsertContent(_ context.Context, subscriptionId string, content entity.SubscriptionContent) error {
	for i := range f.content {
		if f.content[i].SubscriptionId == subscriptionId && f.content[i].LanguageId == content.LanguageId {
			f.content[i].Title = content.Title
			f.content[i].Description = content.Description
			return nil
		}
	}
	content.Id = uuid.NewString()
	content.SubscriptionId = subscriptionId
	f.content = append(f.content, content)
	return nil
}

func (f *fakeSubscriptions) DeleteByPublicId(_ context.Context, publicId string) error {
	for i := range f.subscriptions {
		if f.subscriptions[i].PublicId == publicId {
			id := f.subscriptions[i].Id
			f.subscriptions = append(f.subscriptions[:i], f.subscriptions[i+1:]...)
			var kept []entity.SubscriptionContent
			for _, c := range f.content {
				if c.SubscriptionId != id {
					kept = append(kept, c)
				}
			}
			f.content = kept
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeSubscriptions) IncrementUseCount(_ context.Context, publicId string, delta int) error {
	for i := range f.subscriptions {
		if f.subscriptions[i].PublicId == publicId {
			f.subscriptions[i].UseCount += delta
			if f.subscriptions[i].UseCount < 0 {
				f.subscriptions[i].UseCount = 0
			}
			return nil
		}
	}
	return apperr.ErrNotFound
}

func (f *fakeSubscriptions) Count(ctx context.Context, filter entity.SubscriptionFilter) (int, error) {
	ss, _, err := f.List(ctx, filter, entity.ListOptions{Limit: entity.MaxListLimit}, "")
	return len(ss), err
}

func (f *fakeSubscriptions) BulkUpdateStatus(_ context.Context, publicIds []string, active bool) (entity.BulkResult, error) {
	var n int
	for i := range f.subscriptions {
		if containsStr(publicIds, f.subscriptions[i].PublicId) {
			f.subscriptions[i].IsActive = active
			n++
		}
	}
	return entity.BulkResult{Count: n}, nil
}

func (f *fakeSubscriptions) BulkDelete(_ context.Context, publicIds []string) (entity.BulkResult, error) {
	res := entity.BulkResult{}
	var kept []entity.RevenueSubscription
	for _, s := range f.subscriptions {
		switch {
		case !containsStr(publicIds, s.PublicId):
			kept = append(kept, s)
		case s.UseCount > 0:
			res.SkippedIds = append(res.SkippedIds, s.PublicId)
			kept = append(kept, s)
		default:
			res.Count++
		}
	}
	f.subscriptions = kept
	return res, nil
}

// --- admin / mail ---

type fakeAdmin fakeRepo

func (f *fakeAdmin) AddAdmin(_ context.Context, un, pwHash string) error {
	if _, ok := f.admins[un]; ok {
		return errUnique{"duplicate admin"}
	}
	f.admins[un] = pwHash
	return nil
}

func (f *fakeAdmin) DeleteAdmin(_ context.Context, username string) error {
	if _, ok := f.admins[username]; !ok {
		return fmt.Errorf("admin not found: %s", username)
	}
	delete(f.admins, username)
	return nil
}

func (f *fakeAdmin) ChangePassword(_ context.Context, un, newHash string) error {
	if _, ok := f.admins[un]; !ok {
		return fmt.Errorf("admin not found: %s", un)
	}
	f.admins[un] = newHash
	return nil
}

func (f *fakeAdmin) PasswordHashByUsername(_ context.Context, un string) (string, error) {
	hash, ok := f.admins[un]
	if !ok {
		return "", apperr.ErrNotFound
	}
	return hash, nil
}

func (f *fakeAdmin) GetAdminByUsername(_ context.Context, username string) (*entity.Admin, error) {
	hash, ok := f.admins[username]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &entity.Admin{Username: username, PasswordHash: hash}, nil
}

type fakeMail fakeRepo

func (f *fakeMail) AddMail(_ context.Context, rec *entity.MailRecord) (string, error) {
	r := *rec
	r.Id = uuid.NewString()
	f.mail = append(f.mail, r)
	return r.Id, nil
}

func (f *fakeMail) GetAllUnsent(_ context.Context, withError bool) ([]entity.MailRecord, error) {
	var out []entity.MailRecord
	for _, m := range f.mail {
		if m.Sent {
			continue
		}
		if !withError && m.ErrMsg != "" {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMail) UpdateSent(_ context.Context, id string) error {
	for i := range f.mail {
		if f.mail[i].Id == id {
			f.mail[i].Sent = true
			return nil
		}
	}
	return fmt.Errorf("mail record not found: %s", id)
}

func (f *fakeMail) AddError(_ context.Context, id string, errMsg string) error {
	for i := range f.mail {
		if f.mail[i].Id == id {
			f.mail[i].ErrMsg = errMsg
			return nil
		}
	}
	return fmt.Errorf("mail record not found: %s", id)
}

// --- helpers ---

func containsStr(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func pageOf[T any](xs []T, opts entity.ListOptions) []T {
	if opts.Offset >= len(xs) {
		return nil
	}
	end := opts.Offset + opts.Limit
	if end > len(xs) {
		end = len(xs)
	}
	return xs[opts.Offset:end]
}
