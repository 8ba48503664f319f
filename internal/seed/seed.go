// Package seed loads the base data a fresh installation needs: the platform
// languages, the dropdown options for every language and the first admin
// account. It goes through the service layer so seeded rows pass the same
// validation as API writes, and it is safe to run more than once.
package seed

import (
	"context"

	"log/slog"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
	"github.com/raisehub/admin-manager/internal/service"
)

type Seeder struct {
	languages *service.Language
	dropdowns *service.Dropdown
	auth      *service.Auth
}

func New(languages *service.Language, dropdowns *service.Dropdown, auth *service.Auth) *Seeder {
	return &Seeder{
		languages: languages,
		dropdowns: dropdowns,
		auth:      auth,
	}
}

// AdminCredentials is the initial admin account created by the seeder.
type AdminCredentials struct {
	MasterPassword string
	Username       string
	Password       string
}

var seedLanguages = []entity.Language{
	{Name: "English", FolderCode: "en", ISO2: "US", ISO3: "USA", Direction: entity.DirectionLTR, IsDefault: true, IsActive: true},
	{Name: "Español", FolderCode: "es", ISO2: "ES", ISO3: "ESP", Direction: entity.DirectionLTR, IsActive: true},
	{Name: "Français", FolderCode: "fr", ISO2: "FR", ISO3: "FRA", Direction: entity.DirectionLTR, IsActive: true},
	{Name: "العربية", FolderCode: "ar", ISO2: "SA", ISO3: "SAU", Direction: entity.DirectionRTL, IsActive: true},
}

type dropdownRow struct {
	dropdownType   string
	languageFolder string
	uniqueCode     int64
	name           string
}

var seedDropdowns = []dropdownRow{
	{"account-type", "en", 101, "Individual"},
	{"account-type", "en", 102, "Company"},
	{"account-type", "es", 101, "Particular"},
	{"account-type", "es", 102, "Empresa"},
	{"account-type", "fr", 101, "Particulier"},
	{"account-type", "fr", 102, "Entreprise"},
	{"account-type", "ar", 101, "فرد"},
	{"account-type", "ar", 102, "شركة"},

	{"investor-kind", "en", 201, "Retail"},
	{"investor-kind", "en", 202, "Accredited"},
	{"investor-kind", "es", 201, "Minorista"},
	{"investor-kind", "es", 202, "Acreditado"},
	{"investor-kind", "fr", 201, "Particulier"},
	{"investor-kind", "fr", 202, "Accrédité"},
	{"investor-kind", "ar", 201, "تجزئة"},
	{"investor-kind", "ar", 202, "معتمد"},

	{"project-category", "en", 301, "Real Estate"},
	{"project-category", "en", 302, "Technology"},
	{"project-category", "en", 303, "Renewable Energy"},
	{"project-category", "es", 301, "Inmobiliario"},
	{"project-category", "es", 302, "Tecnología"},
	{"project-category", "es", 303, "Energía Renovable"},
	{"project-category", "fr", 301, "Immobilier"},
	{"project-category", "fr", 302, "Technologie"},
	{"project-category", "fr", 303, "Énergie Renouvelable"},
	{"project-category", "ar", 301, "عقارات"},
	{"project-category", "ar", 302, "تكنولوجيا"},
	{"project-category", "ar", 303, "طاقة متجددة"},

	{"funding-stage", "en", 401, "Pre-Seed"},
	{"funding-stage", "en", 402, "Seed"},
	{"funding-stage", "en", 403, "Growth"},
	{"funding-stage", "es", 401, "Pre-Semilla"},
	{"funding-stage", "es", 402, "Semilla"},
	{"funding-stage", "es", 403, "Crecimiento"},
	{"funding-stage", "fr", 401, "Pré-Amorçage"},
	{"funding-stage", "fr", 402, "Amorçage"},
	{"funding-stage", "fr", 403, "Croissance"},
	{"funding-stage", "ar", 401, "ما قبل التأسيس"},
	{"funding-stage", "ar", 402, "تأسيس"},
	{"funding-stage", "ar", 403, "نمو"},

	{"document-kind", "en", 501, "Passport"},
	{"document-kind", "en", 502, "National ID"},
	{"document-kind", "es", 501, "Pasaporte"},
	{"document-kind", "es", 502, "Documento Nacional"},
	{"document-kind", "fr", 501, "Passeport"},
	{"document-kind", "fr", 502, "Carte Nationale"},
	{"document-kind", "ar", 501, "جواز سفر"},
	{"document-kind", "ar", 502, "هوية وطنية"},
}

// Run seeds languages first so the dropdown rows can resolve their language
// foreign keys, then the dropdown table and the admin account. Rows that
// already exist are skipped.
func (s *Seeder) Run(ctx context.Context, admin AdminCredentials) error {
	byFolder, err := s.ensureLanguages(ctx)
	if err != nil {
		return err
	}
	if err := s.ensureDropdowns(ctx, byFolder); err != nil {
		return err
	}
	return s.ensureAdmin(ctx, admin)
}

func (s *Seeder) ensureLanguages(ctx context.Context) (map[string]*entity.Language, error) {
	byFolder := make(map[string]*entity.Language, len(seedLanguages))

	existing, _, err := s.languages.List(ctx, entity.LanguageFilter{}, entity.ListOptions{Limit: entity.MaxListLimit})
	if err != nil {
		return nil, err
	}

	for _, lang := range seedLanguages {
		var found *entity.Language
		for i := range existing {
			if existing[i].FolderCode == lang.FolderCode {
				found = &existing[i]
				break
			}
		}
		if found != nil {
			slog.Default().InfoContext(ctx, "language already present",
				slog.String("folder_code", lang.FolderCode))
			byFolder[lang.FolderCode] = found
			continue
		}

		created, err := s.languages.Create(ctx, lang)
		if err != nil {
			return nil, err
		}
		slog.Default().InfoContext(ctx, "language seeded",
			slog.String("folder_code", created.FolderCode),
			slog.Bool("is_default", created.IsDefault))
		byFolder[created.FolderCode] = created
	}

	return byFolder, nil
}

func (s *Seeder) ensureDropdowns(ctx context.Context, byFolder map[string]*entity.Language) error {
	for _, row := range seedDropdowns {
		lang, ok := byFolder[row.languageFolder]
		if !ok {
			return apperr.LanguageResolution("no seeded language for folder %q", row.languageFolder)
		}

		_, err := s.dropdowns.Create(ctx, entity.DropdownOption{
			Name:         row.name,
			UniqueCode:   row.uniqueCode,
			DropdownType: row.dropdownType,
			IsActive:     true,
		}, lang.PublicId)
		switch {
		case err == nil:
		case apperr.IsKind(err, apperr.KindAlreadyExists):
			slog.Default().DebugContext(ctx, "dropdown option already present",
				slog.String("dropdown_type", row.dropdownType),
				slog.Int64("unique_code", row.uniqueCode),
				slog.String("language", row.languageFolder))
		default:
			return err
		}
	}
	return nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, admin AdminCredentials) error {
	if admin.Username == "" || admin.Password == "" {
		slog.Default().WarnContext(ctx, "no admin credentials configured, skipping admin seed")
		return nil
	}

	err := s.auth.CreateAdmin(ctx, admin.MasterPassword, admin.Username, admin.Password)
	switch {
	case err == nil:
		slog.Default().InfoContext(ctx, "admin seeded", slog.String("username", admin.Username))
		return nil
	case apperr.IsKind(err, apperr.KindAlreadyExists):
		slog.Default().InfoContext(ctx, "admin already present", slog.String("username", admin.Username))
		return nil
	default:
		return err
	}
}
