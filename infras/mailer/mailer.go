package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	"guesthouse/shared/constant"

	"github.com/mailjet/mailjet-apiv3-go"
	"github.com/rs/zerolog/log"
)

const defaultSenderName = "Guest House"

var ErrNoRecipient = errors.New("mail has no recipient")

type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

type Mail struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

type mailjetImpl struct {
	client *mailjet.Client
	cfg    *config.Config
	otel   otel.Otel
}

// New returns a mailjet backed mailer. Without API keys it runs in dry-run mode and only logs.
func New(cfg *config.Config, otel otel.Otel) Mailer {
	impl := &mailjetImpl{
		cfg:  cfg,
		otel: otel,
	}

	if cfg.Mail.APIKeyPublic != constant.Empty && cfg.Mail.APIKeyPrivate != constant.Empty {
		impl.client = mailjet.NewMailjetClient(cfg.Mail.APIKeyPublic, cfg.Mail.APIKeyPrivate)
	} else {
		log.Warn().Msg("Mail API keys not configured, mails will only be logged")
	}

	return impl
}

func (m *mailjetImpl) Send(ctx context.Context, mail Mail) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelMailScopeName, constant.OtelMailScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if mail.To == constant.Empty {
		return ErrNoRecipient
	}

	scope.SetAttribute("subject", mail.Subject)

	if m.client == nil {
		log.Info().Str("to", mail.To).Str("subject", mail.Subject).Int("attachments", len(mail.Attachments)).Msg("dry-run mail")

		return nil
	}

	result, err := m.client.SendMailV31(BuildMessages(m.cfg, mail))
	if err != nil {
		log.Error().Err(err).Str("to", mail.To).Msg("failed to send mail")

		return fmt.Errorf("failed to send mail to %s: %w", mail.To, err)
	}

	for _, res := range result.ResultsV31 {
		if res.Status != "success" {
			return fmt.Errorf("mail to %s was not accepted: %s", mail.To, res.Status)
		}
	}

	return nil
}

// BuildMessages maps a Mail onto the mailjet v3.1 send payload.
func BuildMessages(cfg *config.Config, mail Mail) *mailjet.MessagesV31 {
	senderName := cfg.Mail.SenderName
	if senderName == constant.Empty {
		senderName = defaultSenderName
	}

	info := mailjet.InfoMessagesV31{
		From: &mailjet.RecipientV31{
			Email: cfg.Mail.SenderEmail,
			Name:  senderName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{
				Email: mail.To,
				Name:  mail.ToName,
			},
		},
		Subject:  mail.Subject,
		TextPart: mail.Text,
		HTMLPart: mail.HTML,
	}

	if len(mail.Attachments) > 0 {
		attachments := make(mailjet.AttachmentsV31, len(mail.Attachments))
		for i, attachment := range mail.Attachments {
			attachments[i] = mailjet.AttachmentV31{
				ContentType:   attachment.ContentType,
				Filename:      attachment.FileName,
				Base64Content: base64.StdEncoding.EncodeToString(attachment.Content),
			}
		}

		info.Attachments = &attachments
	}

	return &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}}
}
