package mailer_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"guesthouse/config"
	"guesthouse/infras/mailer"
	"guesthouse/infras/otel/mocks"
)

func TestBuildMessages(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.SenderEmail = "desk@guesthouse.test"

	messages := mailer.BuildMessages(cfg, mailer.Mail{
		To:      "asha@example.com",
		ToName:  "Asha Rao",
		Subject: "Booking Confirmed - Guest House",
		HTML:    "<p>Approved</p>",
		Attachments: []mailer.Attachment{
			{FileName: "booking-K3Z9QX1A.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")},
		},
	})

	assert.Len(t, messages.Info, 1)

	info := messages.Info[0]
	assert.Equal(t, "desk@guesthouse.test", info.From.Email)
	assert.Equal(t, "Guest House", info.From.Name)
	assert.Equal(t, "asha@example.com", (*info.To)[0].Email)
	assert.Equal(t, "Booking Confirmed - Guest House", info.Subject)
	assert.Equal(t, "<p>Approved</p>", info.HTMLPart)
	assert.Len(t, *info.Attachments, 1)
	assert.Equal(t, "booking-K3Z9QX1A.pdf", (*info.Attachments)[0].Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.3")), (*info.Attachments)[0].Base64Content)
}

func TestBuildMessages_WithoutAttachments(t *testing.T) {
	cfg := &config.Config{}
	cfg.Mail.SenderName = "Front Desk"

	messages := mailer.BuildMessages(cfg, mailer.Mail{To: "asha@example.com"})

	assert.Nil(t, messages.Info[0].Attachments)
	assert.Equal(t, "Front Desk", messages.Info[0].From.Name)
}

func TestMailer_SendDryRun(t *testing.T) {
	m := mailer.New(&config.Config{}, mocks.NewOtel())

	assert.NoError(t, m.Send(context.Background(), mailer.Mail{To: "asha@example.com", Subject: "Booking Declined - Guest House"}))
	assert.ErrorIs(t, m.Send(context.Background(), mailer.Mail{}), mailer.ErrNoRecipient)
}
