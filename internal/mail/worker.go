package mail

import (
	"context"
	"fmt"
	"time"

	"log/slog"
)

// Start starts the outbox worker.
func (m *Mailer) Start(ctx context.Context) error {
	if m.ctx != nil && m.cancel != nil {
		return fmt.Errorf("mailer already started")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)
	go m.worker(m.ctx)
	return nil
}

// Stop stops the worker gracefully.
func (m *Mailer) Stop() error {
	if m.cancel == nil {
		return fmt.Errorf("mailer already stopped or not started")
	}

	m.cancel()
	m.cancel = nil
	return nil
}

func (m *Mailer) worker(ctx context.Context) {
	ticker := time.NewTicker(m.c.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.handleUnsent(ctx); err != nil {
				slog.Default().ErrorContext(ctx, "can't handle unsent mails",
					slog.String("err", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *Mailer) handleUnsent(ctx context.Context) error {
	unsent, err := m.repo.Mail().GetAllUnsent(ctx, true)
	if err != nil {
		return fmt.Errorf("can't get unsent mails: %w", err)
	}

	for i := range unsent {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := unsent[i]
		if err := m.cli.Send(ctx, &rec); err != nil {
			slog.Default().ErrorContext(ctx, "can't send mail",
				slog.String("err", err.Error()),
				slog.String("id", rec.Id),
			)
			if err := m.repo.Mail().AddError(ctx, rec.Id, err.Error()); err != nil {
				return fmt.Errorf("can't log error for mail %v: %w", rec.Id, err)
			}
			continue
		}

		if err := m.repo.Mail().UpdateSent(ctx, rec.Id); err != nil {
			return fmt.Errorf("can't mark mail %v sent: %w", rec.Id, err)
		}
	}
	return nil
}
