// Package timezone pins every timestamp the service writes or renders to APP_TIMEZONE.
//
//	now := timezone.Now()                           // last_payment_date, used_date
//	day := timezone.FormatDate(booking.DateOfReturn) // "Jan 2, 2006" for receipts and emails
//
// Use IANA names ("UTC", "Asia/Manila"). An unknown name falls back to UTC.
package timezone
