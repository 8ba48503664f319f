package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/raisehub/admin-manager/internal/entity"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	ContextStore interface {
		Tx(ctx context.Context, fn func(ctx context.Context, store Repository) error) error
	}

	Languages interface {
		// GetByPublicId returns a language or apperr.ErrNotFound.
		GetByPublicId(ctx context.Context, publicId string) (*entity.Language, error)
		GetById(ctx context.Context, id string) (*entity.Language, error)
		GetByFolderCode(ctx context.Context, folderCode string) (*entity.Language, error)
		// GetDefault returns the language flagged as default.
		GetDefault(ctx context.Context) (*entity.Language, error)
		ListActive(ctx context.Context) ([]entity.Language, error)
		List(ctx context.Context, filter entity.LanguageFilter, opts entity.ListOptions) ([]entity.Language, entity.Pagination, error)
		Insert(ctx context.Context, lang *entity.Language) (*entity.Language, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.LanguageUpdate) error
		// ClearDefault drops the default flag from every language; used before
		// flagging a new default.
		ClearDefault(ctx context.Context) error
		DeleteByPublicId(ctx context.Context, publicId string) error
		Count(ctx context.Context, filter entity.LanguageFilter) (int, error)
		BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error)
		BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error)
	}

	Countries interface {
		GetByPublicId(ctx context.Context, publicId string) (*entity.Country, error)
		// GetByISO matches either the ISO2 or ISO3 code.
		GetByISO(ctx context.Context, code string) (*entity.Country, error)
		List(ctx context.Context, filter entity.CountryFilter, opts entity.ListOptions) ([]entity.Country, entity.Pagination, error)
		Insert(ctx context.Context, c *entity.Country) (*entity.Country, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.CountryUpdate) error
		ClearDefault(ctx context.Context) error
		DeleteByPublicId(ctx context.Context, publicId string) error
		IncrementUseCount(ctx context.Context, publicId string, delta int) error
		Count(ctx context.Context, filter entity.CountryFilter) (int, error)
		BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error)
		// BulkDelete skips default or in-use countries and reports them in
		// BulkResult.SkippedIds.
		BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error)
	}

	Currencies interface {
		GetByPublicId(ctx context.Context, publicId string) (*entity.Currency, error)
		GetByCode(ctx context.Context, code string) (*entity.Currency, error)
		List(ctx context.Context, filter entity.CurrencyFilter, opts entity.ListOptions) ([]entity.Currency, entity.Pagination, error)
		Insert(ctx context.Context, c *entity.Currency) (*entity.Currency, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.CurrencyUpdate) error
		DeleteByPublicId(ctx context.Context, publicId string) error
		IncrementUseCount(ctx context.Context, publicId string, delta int) error
		Count(ctx context.Context, filter entity.CurrencyFilter) (int, error)
		BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error)
		BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error)
	}

	Dropdowns interface {
		GetByPublicId(ctx context.Context, publicId string) (*entity.DropdownOption, error)
		// GetByCodeAndLanguage looks up one translated row of a dropdown
		// concept; used for uniqueness checks.
		GetByCodeAndLanguage(ctx context.Context, uniqueCode int64, languageId string) (*entity.DropdownOption, error)
		// ListByTypeForLanguage returns the options of one dropdown type for
		// the given language, falling back to the default language for
		// concepts with no row in the requested one.
		ListByTypeForLanguage(ctx context.Context, dropdownType, languageId string) ([]entity.DropdownOption, error)
		List(ctx context.Context, filter entity.DropdownFilter, opts entity.ListOptions) ([]entity.DropdownOption, entity.Pagination, error)
		Insert(ctx context.Context, opt *entity.DropdownOption) (*entity.DropdownOption, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.DropdownUpdate) error
		DeleteByPublicId(ctx context.Context, publicId string) error
		IncrementUseCount(ctx context.Context, publicId string, delta int) error
		Count(ctx context.Context, filter entity.DropdownFilter) (int, error)
		BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error)
		BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error)
	}

	EmailTemplates interface {
		GetByPublicId(ctx context.Context, publicId string) (*entity.EmailTemplate, error)
		GetByTaskAndLanguage(ctx context.Context, task, languageId string) (*entity.EmailTemplate, error)
		ListByTask(ctx context.Context, task string) ([]entity.EmailTemplate, error)
		List(ctx context.Context, filter entity.EmailTemplateFilter, opts entity.ListOptions) ([]entity.EmailTemplate, entity.Pagination, error)
		Insert(ctx context.Context, tpl *entity.EmailTemplate) (*entity.EmailTemplate, error)
		// InsertMany creates one row per template; used when a template is
		// created for every active language at once.
		InsertMany(ctx context.Context, tpls []entity.EmailTemplate) ([]entity.EmailTemplate, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.EmailTemplateUpdate) error
		// DeleteByTask removes every language variant sharing the task.
		DeleteByTask(ctx context.Context, task string) (int, error)
		// UpdateStatusByTask flips the status of every language variant
		// sharing the task.
		UpdateStatusByTask(ctx context.Context, task string, active bool) (int, error)
		Count(ctx context.Context, filter entity.EmailTemplateFilter) (int, error)
	}

	Subscriptions interface {
		// GetByPublicId returns the subscription with content resolved for
		// languageId, falling back to the default language; when languageId is
		// empty every content row is attached.
		GetByPublicId(ctx context.Context, publicId, languageId string) (*entity.RevenueSubscription, error)
		List(ctx context.Context, filter entity.SubscriptionFilter, opts entity.ListOptions, languageId string) ([]entity.RevenueSubscription, entity.Pagination, error)
		// Insert stores the subscription together with its per-language
		// content rows. The relational backend wraps both in one transaction;
		// the document backend performs two sequential writes.
		Insert(ctx context.Context, sub *entity.RevenueSubscription, content []entity.SubscriptionContent) (*entity.RevenueSubscription, error)
		UpdateByPublicId(ctx context.Context, publicId string, upd entity.SubscriptionUpdate) error
		UpsertContent(ctx context.Context, subscriptionId string, content entity.SubscriptionContent) error
		DeleteByPublicId(ctx context.Context, publicId string) error
		IncrementUseCount(ctx context.Context, publicId string, delta int) error
		Count(ctx context.Context, filter entity.SubscriptionFilter) (int, error)
		BulkUpdateStatus(ctx context.Context, publicIds []string, active bool) (entity.BulkResult, error)
		BulkDelete(ctx context.Context, publicIds []string) (entity.BulkResult, error)
	}

	Admin interface {
		AddAdmin(ctx context.Context, un, pwHash string) error
		DeleteAdmin(ctx context.Context, username string) error
		ChangePassword(ctx context.Context, un, newHash string) error
		PasswordHashByUsername(ctx context.Context, un string) (string, error)
		GetAdminByUsername(ctx context.Context, username string) (*entity.Admin, error)
	}

	Mail interface {
		AddMail(ctx context.Context, rec *entity.MailRecord) (string, error)
		GetAllUnsent(ctx context.Context, withError bool) ([]entity.MailRecord, error)
		UpdateSent(ctx context.Context, id string) error
		AddError(ctx context.Context, id string, errMsg string) error
	}

	Repository interface {
		Languages() Languages
		Countries() Countries
		Currencies() Currencies
		Dropdowns() Dropdowns
		EmailTemplates() EmailTemplates
		Subscriptions() Subscriptions
		Admin() Admin
		Mail() Mail
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		Now() time.Time
		Ping(ctx context.Context) error
		Close()
		IsErrUniqueViolation(err error) bool
	}

	// DB represents the relational database interface used by the postgres
	// backend; the document backend does not expose it.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	// Cache is the in-process TTL cache keyed by entity + filter signature.
	// Invalidation is best-effort: concurrent writers can race and leave a
	// stale entry for at most one TTL window.
	Cache interface {
		Get(key string) (any, bool)
		Set(key string, v any)
		Invalidate(entities ...string)
		Len() int
	}

	FileStore interface {
		// UploadFlagImage stores a base64-encoded image under the module
		// folder and returns its public path.
		UploadFlagImage(ctx context.Context, rawB64Image, folder, imageName string) (string, error)
	}

	// Sender delivers a single rendered email; satisfied by the sendgrid
	// client wrapper and by test doubles.
	Sender interface {
		Send(ctx context.Context, rec *entity.MailRecord) error
	}

	Mailer interface {
		// EnqueueTask renders the stored template for the task in the
		// resolved language and adds it to the outbox.
		EnqueueTask(ctx context.Context, task, languageId, to string, data map[string]string) error
		Start(ctx context.Context) error
		Stop() error
	}
)
