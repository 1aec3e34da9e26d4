// Package document renders the booking PDFs: the confirmation sent on
// approval, the decline notice and the admin invoice.
package document

//go:generate go run go.uber.org/mock/mockgen -source=./document.go -destination=./mocks/document_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/booking/model"
	"guesthouse/shared/constant"
	"guesthouse/shared/daterange"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	KindConfirmation = "confirmation"
	KindDecline      = "decline"
	KindInvoice      = "invoice"
)

const (
	defaultTitle = "Guest House"
	fontFamily   = "Helvetica"
	lineHeight   = 7.0
	labelWidth   = 50.0
	pageWidth    = 190.0
)

var ErrUnknownKind = errors.New("unknown document kind")

type Renderer interface {
	Render(ctx context.Context, kind string, booking model.Booking) ([]byte, error)
}

type rendererImpl struct {
	title string
	otel  otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Renderer {
	title := cfg.App.Name
	if title == "" {
		title = defaultTitle
	}

	return &rendererImpl{
		title: title,
		otel:  otel,
	}
}

// FileName is the attachment name used for a rendered document.
func FileName(kind string, booking model.Booking) string {
	switch kind {
	case KindConfirmation:
		return fmt.Sprintf("booking-%s.pdf", model.Value(booking.BookingID))
	case KindDecline:
		return "decline-notice.pdf"
	default:
		return fmt.Sprintf("invoice-%s.pdf", booking.TempID)
	}
}

func (r *rendererImpl) Render(ctx context.Context, kind string, booking model.Booking) (content []byte, err error) {
	_, scope := r.otel.NewScope(ctx, constant.OtelDocumentScopeName, constant.OtelDocumentScopeName+".Render")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("kind", kind)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(r.title, true)
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(pageWidth, 10, tr(r.title), "", 1, "C", false, 0, "")

	switch kind {
	case KindConfirmation:
		confirmation(pdf, tr, booking)
	case KindDecline:
		decline(pdf, tr, booking)
	case KindInvoice:
		invoice(pdf, tr, booking)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	var buf bytes.Buffer
	if err = pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render %s document: %w", kind, err)
	}

	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string, red, green, blue int) {
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 15)
	pdf.SetTextColor(red, green, blue)
	pdf.CellFormat(pageWidth, 10, text, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func row(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	pdf.MultiCell(pageWidth-labelWidth, lineHeight, tr(value), "", "L", false)
}

func stay(date, clock string) string {
	if clock == "" {
		return date
	}

	return date + " " + clock
}

func amount(value int64) string {
	return "INR " + strconv.FormatInt(value, 10)
}

func details(pdf *fpdf.Fpdf, tr func(string) string, booking model.Booking) {
	row(pdf, tr, "Guest Name", booking.FullName)
	row(pdf, tr, "Email", booking.Email)
	row(pdf, tr, "Phone", booking.Phone)
	row(pdf, tr, "Room Type", booking.RoomType)
	row(pdf, tr, "Rooms Required", strconv.Itoa(booking.RoomsRequired))
	row(pdf, tr, "Check-In", stay(daterange.Format(booking.CheckInDate), booking.CheckInTime))
	row(pdf, tr, "Check-Out", stay(daterange.Format(booking.CheckOutDate), booking.CheckOutTime))
	row(pdf, tr, "Amount", amount(booking.Amount))
}

func confirmation(pdf *fpdf.Fpdf, tr func(string) string, booking model.Booking) {
	heading(pdf, "BOOKING CONFIRMED", 0, 128, 0)

	row(pdf, tr, "Booking ID", model.Value(booking.BookingID))
	row(pdf, tr, "Room Number", model.Value(booking.RoomNumber))
	details(pdf, tr, booking)
}

func decline(pdf *fpdf.Fpdf, tr func(string) string, booking model.Booking) {
	heading(pdf, "BOOKING DECLINED", 200, 0, 0)

	row(pdf, tr, "Reason for Decline", model.Value(booking.DeclineReason))
	details(pdf, tr, booking)
}

func invoice(pdf *fpdf.Fpdf, tr func(string) string, booking model.Booking) {
	heading(pdf, "INVOICE", 0, 0, 0)

	row(pdf, tr, "Reference", booking.TempID)
	details(pdf, tr, booking)
	row(pdf, tr, "Address", booking.Address)
	row(pdf, tr, "Purpose", booking.Purpose)
	row(pdf, tr, "Category", booking.Category)
	row(pdf, tr, "Payment Status", booking.PaymentStatus)

	if len(booking.Guests) > 0 {
		guests(pdf, tr, booking.Guests)
	}

	pdf.Ln(4)
	row(pdf, tr, "Booking Status", booking.Status)

	if booking.BookingID != nil {
		row(pdf, tr, "Booking ID", *booking.BookingID)
	}

	if booking.RoomNumber != nil {
		row(pdf, tr, "Room Number", *booking.RoomNumber)
	}

	if booking.DeclineReason != nil {
		row(pdf, tr, "Decline Reason", *booking.DeclineReason)
	}
}

func guests(pdf *fpdf.Fpdf, tr func(string) string, list model.Guests) {
	widths := []float64{55, 15, 65, 55}
	headers := []string{"Name", "Age", "Email", "Phone"}

	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(pageWidth, lineHeight, "Additional Guests", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 230, 230)

	for i, header := range headers {
		pdf.CellFormat(widths[i], lineHeight, header, "1", 0, "L", true, 0, "")
	}

	pdf.Ln(-1)
	pdf.SetFont(fontFamily, "", 10)

	for _, guest := range list {
		cells := []string{guest.Name, strconv.Itoa(guest.Age), guest.Email, guest.Phone}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], lineHeight, tr(cell), "1", 0, "L", false, 0, "")
		}

		pdf.Ln(-1)
	}
}
