package service

import (
	"bookpay/internal/domains/notification/model"
	"bookpay/shared"
	"bookpay/shared/timezone"
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// buildReceipt renders a one-page PDF receipt. Core fonts are cp1252, so amounts carry no symbol.
func buildReceipt(appName string, c model.PaymentConfirmation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.SetAuthor(appName, false)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(appName+" - PAYMENT RECEIPT"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, "Issued: "+timezone.Format(timezone.Now(), "2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr("Customer: "+c.FirstName))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Booking details")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)

	for _, r := range detailRows("", c) {
		pdf.CellFormat(55, 7, tr(r.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(r.Value), "1", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("Amount paid on this transaction: %s. Keep this receipt for your records.",
		shared.FormatMoney("", c.AmountPaid))), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to build receipt pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func receiptName(bookingID int64) string {
	return fmt.Sprintf("receipt-booking-%d.pdf", bookingID)
}
