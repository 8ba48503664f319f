package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/raisehub/admin-manager/internal/dependency"
	"github.com/raisehub/admin-manager/internal/entity"
)

// SendgridSender delivers rendered messages through the sendgrid API.
type SendgridSender struct {
	cli *sendgrid.Client
}

func NewSendgridSender(apiKey string) (*SendgridSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	return &SendgridSender{cli: sendgrid.NewSendClient(apiKey)}, nil
}

var _ dependency.Sender = (*SendgridSender)(nil)

func (s *SendgridSender) Send(ctx context.Context, rec *entity.MailRecord) error {
	from := sgmail.NewEmail(rec.FromName, rec.FromEmail)
	to := sgmail.NewEmail("", rec.To)
	msg := sgmail.NewSingleEmail(from, rec.Subject, to, "", rec.BodyHTML)
	if rec.ReplyTo != "" {
		msg.SetReplyTo(sgmail.NewEmail("", rec.ReplyTo))
	}

	resp, err := s.cli.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("error sending email: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
