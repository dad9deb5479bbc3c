package service

import (
	"bookpay/internal/domains/notification/model"
	"bookpay/shared"
	"bookpay/shared/timezone"
	"bytes"
	"fmt"
	htmlTemplate "html/template"
	textTemplate "text/template"
	"time"
)

const subjectFormat = "Payment Confirmation - Booking #%d"

const htmlBody = `<h2>Payment Confirmation</h2>
<p>Dear {{.FirstName}},</p>
<p>Thank you for your payment. Your booking details are as follows:</p>
<table border="1" cellpadding="5" cellspacing="0" style="border-collapse: collapse; width: 100%;">
{{- range $i, $row := .Rows}}
	<tr{{if even $i}} style="background-color: #f2f2f2;"{{end}}>
		<th style="padding: 8px; text-align: left;">{{$row.Label}}</th>
		<td style="padding: 8px;">{{$row.Value}}</td>
	</tr>
{{- end}}
</table>
<p style="margin-top: 20px;">If you have any questions about your booking, please contact our support team.</p>
<p>Thank you for choosing {{.AppName}}!</p>
`

const textBody = `Payment Confirmation

Dear {{.FirstName}},

Thank you for your payment. Your booking details are as follows:
{{range .Rows}}
{{.Label}}: {{.Value}}
{{- end}}

If you have any questions about your booking, please contact our support team.
Thank you for choosing {{.AppName}}!
`

var (
	funcs = map[string]any{"even": func(i int) bool { return i%2 == 0 }}

	htmlTmpl = htmlTemplate.Must(htmlTemplate.New("html").Funcs(funcs).Parse(htmlBody))
	textTmpl = textTemplate.Must(textTemplate.New("text").Parse(textBody))
)

type row struct {
	Label string
	Value string
}

type view struct {
	AppName   string
	FirstName string
	Rows      []row
}

type rendered struct {
	Subject string
	HTML    string
	Text    string
}

func newView(appName, currency string, c model.PaymentConfirmation) view {
	return view{
		AppName:   appName,
		FirstName: c.FirstName,
		Rows:      detailRows(currency, c),
	}
}

func detailRows(currency string, c model.PaymentConfirmation) []row {
	return []row{
		{Label: "Booking ID", Value: fmt.Sprintf("#%d", c.BookingID)},
		{Label: "Package Name", Value: c.PackageName},
		{Label: "Booking Date", Value: formatDate(c.DateOfBooking)},
		{Label: "Return Date", Value: formatDate(c.DateOfReturn)},
		{Label: "Event Location", Value: c.EventLocation},
		{Label: "Total Amount", Value: shared.FormatMoney(currency, c.Price)},
		{Label: "Amount Paid", Value: shared.FormatMoney(currency, c.AmountPaid)},
		{Label: "Remaining Balance", Value: shared.FormatMoney(currency, c.NewBalance)},
		{Label: "Payment Status", Value: c.NewStatus},
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return timezone.FormatDate(time.Time{})
	}

	return timezone.FormatDate(*t)
}

func render(appName, currency string, c model.PaymentConfirmation) (rendered, error) {
	data := newView(appName, currency, c)

	var html, text bytes.Buffer

	if err := htmlTmpl.Execute(&html, data); err != nil {
		return rendered{}, fmt.Errorf("%w: html body: %w", model.ErrRender, err)
	}

	if err := textTmpl.Execute(&text, data); err != nil {
		return rendered{}, fmt.Errorf("%w: text body: %w", model.ErrRender, err)
	}

	return rendered{
		Subject: fmt.Sprintf(subjectFormat, c.BookingID),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
