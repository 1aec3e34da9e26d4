package service

import (
	"context"
	"fmt"
	"html"
	"path"

	"guesthouse/infras/mailer"
	"guesthouse/infras/otel"
	"guesthouse/infras/s3"
	"guesthouse/internal/document"
	"guesthouse/internal/domains/booking/model"
	"guesthouse/internal/events"
	"guesthouse/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	SubjectApproved = "Booking Confirmed - Guest House"
	SubjectDeclined = "Booking Declined - Guest House"

	archiveDirectory = "bookings"
)

// Notification turns lifecycle events into guest mails with the rendered PDF attached.
type Notification interface {
	events.Handler
}

type serviceImpl struct {
	mailer   mailer.Mailer
	renderer document.Renderer
	storage  s3.S3
	otel     otel.Otel
}

func New(mailer mailer.Mailer, renderer document.Renderer, storage s3.S3, otel otel.Otel) Notification {
	return &serviceImpl{
		mailer:   mailer,
		renderer: renderer,
		storage:  storage,
		otel:     otel,
	}
}

func (s *serviceImpl) Handle(ctx context.Context, event events.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Handle")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking := event.Booking
	scope.SetAttribute("type", event.Type)

	var kind, subject, body string

	switch event.Type {
	case events.TypeBookingApproved:
		kind = document.KindConfirmation
		subject = SubjectApproved
		body = fmt.Sprintf(
			"Dear %s,<br/><br/>Your booking has been approved. Your booking ID is <b>%s</b> and your room number is <b>%s</b>. Please find the attached PDF with all the details.",
			html.EscapeString(booking.FullName), html.EscapeString(model.Value(booking.BookingID)), html.EscapeString(model.Value(booking.RoomNumber)),
		)
	case events.TypeBookingDeclined:
		kind = document.KindDecline
		subject = SubjectDeclined
		body = fmt.Sprintf(
			"Dear %s,<br/><br/>We regret to inform you that your booking has been declined. Please find the attached PDF for more details.",
			html.EscapeString(booking.FullName),
		)
	default:
		log.Warn().Str("type", event.Type).Msg("ignoring unknown booking event")

		return nil
	}

	content, err := s.renderer.Render(ctx, kind, booking)
	if err != nil {
		log.Error().Err(err).Str("temp_id", booking.TempID).Msg("failed to render booking document")

		return fmt.Errorf("failed to render %s document: %w", kind, err)
	}

	fileName := document.FileName(kind, booking)
	s.archive(ctx, booking, fileName, content)

	err = s.mailer.Send(ctx, mailer.Mail{
		To:      booking.Email,
		ToName:  booking.FullName,
		Subject: subject,
		HTML:    body,
		Attachments: []mailer.Attachment{
			{FileName: fileName, ContentType: constant.ContentTypePDF, Content: content},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("temp_id", booking.TempID).Msg("failed to mail booking notification")

		return fmt.Errorf("failed to mail %s notification: %w", kind, err)
	}

	log.Info().Str("temp_id", booking.TempID).Str("type", event.Type).Msg("booking notification sent")

	return nil
}

// archive keeps a copy of the document in object storage. Failures never stop the mail.
func (s *serviceImpl) archive(ctx context.Context, booking model.Booking, fileName string, content []byte) {
	if !s.storage.Enabled() {
		return
	}

	url, err := s.storage.Put(ctx, s3.Object{
		Key:         path.Join(archiveDirectory, booking.TempID, fileName),
		ContentType: constant.ContentTypePDF,
		Body:        content,
		Metadata:    map[string]string{"temp_id": booking.TempID, "status": booking.Status},
	})
	if err != nil {
		log.Error().Err(err).Str("temp_id", booking.TempID).Msg("failed to archive booking document")

		return
	}

	log.Info().Str("temp_id", booking.TempID).Str("url", url).Msg("booking document archived")
}
