package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/service"
)

// Config is the configuration for the http server.
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server exposing the admin REST API.
type Server struct {
	hs   *http.Server
	c    *Config
	done chan struct{}

	repo          dependency.Repository
	auth          *service.Auth
	languages     *service.Language
	countries     *service.Country
	currencies    *service.Currency
	dropdowns     *service.Dropdown
	templates     *service.EmailTemplate
	subscriptions *service.Subscription
	mailer        dependency.Mailer
}

// New creates a new server.
func New(config *Config, repo dependency.Repository, auth *service.Auth,
	languages *service.Language, countries *service.Country, currencies *service.Currency,
	dropdowns *service.Dropdown, templates *service.EmailTemplate, subscriptions *service.Subscription,
	mailer dependency.Mailer,
) *Server {
	return &Server{
		c:             config,
		done:          make(chan struct{}),
		repo:          repo,
		auth:          auth,
		languages:     languages,
		countries:     countries,
		currencies:    currencies,
		dropdowns:     dropdowns,
		templates:     templates,
		subscriptions: subscriptions,
		mailer:        mailer,
	}
}

// Done returns a channel that is closed when the server exits.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.c.AllowedOrigins,
		AllowedMethods:   []string{http.MethodHead, http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", s.login)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.auth.JwtAuth))
		r.Use(jwtauth.Authenticator(s.auth.JwtAuth))

		r.Route("/admins", func(r chi.Router) {
			r.Post("/", s.createAdmin)
			r.Delete("/{username}", s.deleteAdmin)
			r.Post("/change-password", s.changePassword)
		})

		r.Route("/languages", func(r chi.Router) {
			r.Get("/", s.listLanguages)
			r.Post("/", s.createLanguage)
			r.Patch("/bulk-update", s.bulkUpdateLanguages)
			r.Patch("/bulk-delete", s.bulkDeleteLanguages)
			r.Get("/{publicId}", s.getLanguage)
			r.Patch("/{publicId}", s.updateLanguage)
			r.Delete("/{publicId}", s.deleteLanguage)
		})

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", s.listCountries)
			r.Post("/", s.createCountry)
			r.Patch("/bulk-update", s.bulkUpdateCountries)
			r.Patch("/bulk-delete", s.bulkDeleteCountries)
			r.Get("/{publicId}", s.getCountry)
			r.Patch("/{publicId}", s.updateCountry)
			r.Delete("/{publicId}", s.deleteCountry)
		})

		r.Route("/currencies", func(r chi.Router) {
			r.Get("/", s.listCurrencies)
			r.Post("/", s.createCurrency)
			r.Patch("/bulk-update", s.bulkUpdateCurrencies)
			r.Patch("/bulk-delete", s.bulkDeleteCurrencies)
			r.Get("/{publicId}", s.getCurrency)
			r.Patch("/{publicId}", s.updateCurrency)
			r.Delete("/{publicId}", s.deleteCurrency)
		})

		r.Route("/manage-dropdown", func(r chi.Router) {
			r.Get("/", s.listDropdowns)
			r.Post("/", s.createDropdown)
			r.Patch("/bulk-update", s.bulkUpdateDropdowns)
			r.Patch("/bulk-delete", s.bulkDeleteDropdowns)
			r.Get("/{optionType}", s.listDropdownsByType)
			r.Patch("/option/{publicId}", s.updateDropdown)
			r.Delete("/option/{publicId}", s.deleteDropdown)
		})

		r.Route("/email-templates", func(r chi.Router) {
			r.Get("/", s.listEmailTemplates)
			r.Post("/", s.createEmailTemplate)
			r.Patch("/bulk-update", s.bulkUpdateEmailTemplates)
			r.Patch("/bulk-delete", s.bulkDeleteEmailTemplates)
			r.Post("/send", s.sendEmailTemplate)
			r.Get("/{publicId}", s.getEmailTemplate)
			r.Patch("/{publicId}", s.updateEmailTemplate)
			r.Delete("/{publicId}", s.deleteEmailTemplate)
			r.Post("/{publicId}/status", s.updateEmailTemplateStatus)
		})

		r.Route("/revenue-subscriptions", func(r chi.Router) {
			r.Get("/", s.listSubscriptions)
			r.Post("/", s.createSubscription)
			r.Patch("/bulk-update", s.bulkUpdateSubscriptions)
			r.Patch("/bulk-delete", s.bulkDeleteSubscriptions)
			r.Get("/{publicId}", s.getSubscription)
			r.Patch("/{publicId}", s.updateSubscription)
			r.Delete("/{publicId}", s.deleteSubscription)
			r.Post("/{publicId}/content", s.upsertSubscriptionContent)
		})
	})

	// Public, read-only endpoints used by the storefront.
	r.Route("/api/frontend", func(r chi.Router) {
		r.Get("/languages", s.listActiveLanguages)
		r.Get("/dropdown/{optionType}", s.listDropdownsByType)
	})

	return r
}

// Start starts the http server.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		if err := s.hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Default().ErrorContext(ctx, "http server exited",
				slog.String("err", err.Error()),
			)
		}
	}()

	slog.Default().InfoContext(ctx, "http server listening", slog.String("addr", addr))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

// health pings the selected backend.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		renderError(w, r, fmt.Errorf("database unreachable: %w", err))
		return
	}
	renderData(w, r, http.StatusOK, "OK", nil)
}
