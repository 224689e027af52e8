package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"tourbackend/internal/domain"
	"tourbackend/internal/domain/models"
	"tourbackend/internal/repositories"
	"tourbackend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the booking invoice PDF.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	PaymentRepo repositories.PaymentRepository
	TourRepo    repositories.TourRepository
	RequestID   string
}

// GenerateInvoice renders an invoice for a paid booking. Customers get their
// own bookings only; staff may pull any.
func (s DocsService) GenerateInvoice(ctx context.Context, actor domain.RequestContext, bookingID int64) ([]byte, string, error) {
	var (
		booking models.Booking
		err     error
	)
	if actor.Role == domain.RoleCustomer {
		booking, err = s.BookingRepo.GetByIDForCustomer(ctx, bookingID, actor.UserID)
	} else if actor.IsStaff() {
		booking, err = s.BookingRepo.GetByID(ctx, bookingID)
	} else {
		return nil, "", domain.ForbiddenError{Msg: "access denied"}
	}
	if err != nil {
		return nil, "", err
	}

	payment, err := s.PaymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, "", err
	}
	if payment.Status != models.PaymentCompleted && payment.Status != models.PaymentRefunded {
		return nil, "", domain.ValidationError{Field: "payment", Msg: "invoice available once the payment is completed"}
	}

	tour, err := s.TourRepo.GetByID(ctx, booking.TourID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", booking.ID))
	return buildInvoicePDF(booking, payment, tour)
}

func buildInvoicePDF(b models.Booking, p models.Payment, t models.Tour) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d", b.ID)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Reference  : "+p.TransactionID)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("Tour %q, %s to %s, %d participant(s)", t.Name, b.StartDate, b.EndDate, b.NumberOfPeople)
	pdf.MultiCell(0, 6, "1) "+desc, "", "", false)
	pdf.Ln(2)

	pdf.Cell(0, 6, "Price per person: "+utils.FormatMoney(t.Price))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total paid: "+utils.FormatMoney(p.Amount))
	pdf.Ln(12)

	if p.Status == models.PaymentRefunded {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "This payment has been refunded in full.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%d.pdf", b.ID)
	return buf.Bytes(), filename, nil
}
