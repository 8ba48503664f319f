package app

import (
	"context"

	"log/slog"

	"github.com/raisehub/admin-manager/config"
	httpapi "github.com/raisehub/admin-manager/internal/api/http"
	"github.com/raisehub/admin-manager/internal/cache"
	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/mail"
	"github.com/raisehub/admin-manager/internal/service"
	"github.com/raisehub/admin-manager/internal/storefactory"
)

// App wires the repository, the services and the transport together and owns
// their lifecycle.
type App struct {
	c      *config.Config
	hs     *httpapi.Server
	repo   dependency.Repository
	mailer dependency.Mailer
	done   chan struct{}
}

// New returns a new instance of App.
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start connects the configured database backend, builds the services and
// starts the outbox worker and the http server.
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting admin manager",
		slog.String("database_type", a.c.Store.DatabaseType))

	a.repo, err = storefactory.New(ctx, a.c.Store)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to database", slog.String("err", err.Error()))
		return err
	}

	fileStore, err := a.c.Bucket.Init()
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't init file store", slog.String("err", err.Error()))
		return err
	}

	sender, err := mail.NewSendgridSender(a.c.Mailer.APIKey)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't init mail sender", slog.String("err", err.Error()))
		return err
	}
	a.mailer, err = mail.New(&a.c.Mailer, sender, a.repo)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't init mailer", slog.String("err", err.Error()))
		return err
	}
	if err = a.mailer.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "couldn't start mail worker", slog.String("err", err.Error()))
		return err
	}

	c := cache.New(a.c.Cache)

	authS, err := service.NewAuth(&a.c.Auth, a.repo.Admin())
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't create auth service", slog.String("err", err.Error()))
		return err
	}

	languageS := service.NewLanguage(a.repo, c)
	countryS := service.NewCountry(a.repo, c, fileStore)
	currencyS := service.NewCurrency(a.repo, c)
	dropdownS := service.NewDropdown(a.repo, c, languageS)
	templateS := service.NewEmailTemplate(a.repo, c, languageS)
	subscriptionS := service.NewSubscription(a.repo, c, languageS)

	a.hs = httpapi.New(&a.c.HTTP, a.repo, authS,
		languageS, countryS, currencyS, dropdownS, templateS, subscriptionS, a.mailer)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		return err
	}

	go func() {
		<-a.hs.Done()
		close(a.done)
	}()

	return nil
}

// Done returns a channel that is closed when the http server exits.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// Stop shuts the transport, the outbox worker and the repository down.
func (a *App) Stop(ctx context.Context) {
	if a.hs != nil {
		if err := a.hs.Stop(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
		}
	}
	if a.mailer != nil {
		if err := a.mailer.Stop(); err != nil {
			slog.Default().ErrorContext(ctx, "mail worker shutdown failed", slog.String("err", err.Error()))
		}
	}
	if a.repo != nil {
		a.repo.Close()
	}
}
