package repository_test

import (
	"bookpay/infras/otel/mocks"
	"bookpay/infras/postgres"
	"bookpay/internal/domains/booking/repository"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newRepo(t *testing.T) (repository.Booking, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mocks.NewOtel()), mock, sqlxDB
}

func TestSumPaymentsTx(t *testing.T) {
	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		err     error
		want    float64
		wantErr bool
	}{
		{
			name: "prior payments",
			rows: sqlmock.NewRows([]string{"coalesce"}).AddRow("3000.00"),
			want: 3000,
		},
		{
			name: "no prior payments",
			rows: sqlmock.NewRows([]string{"coalesce"}).AddRow("0"),
			want: 0,
		},
		{
			name:    "query error",
			err:     errors.New("canceling statement due to lock timeout"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepo(t)

			mock.ExpectBegin()

			query := mock.ExpectPrepare(regexp.QuoteMeta(
				"SELECT COALESCE(SUM(booking.last_payment_amount), 0) FROM booking  WHERE (booking.booking_id = $1 AND booking.last_payment_amount IS NOT NULL)",
			)).ExpectQuery().WithArgs(int64(7))

			if tt.err != nil {
				query.WillReturnError(tt.err)
			} else {
				query.WillReturnRows(tt.rows)
			}

			mock.ExpectRollback()

			tx, err := db.Beginx()
			assert.NoError(t, err)

			got, err := repo.SumPaymentsTx(context.Background(), tx, 7)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.InDelta(t, tt.want, got, 0.001)
			}

			assert.NoError(t, tx.Rollback())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetConfirmationDetails(t *testing.T) {
	repo, mock, _ := newRepo(t)

	bookedAt := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	returnAt := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM booking\nLEFT JOIN customer ON customer.customer_id = booking.customer_id")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "customer_id", "price", "date_of_booking", "date_of_return", "event_location", "email", "first_name", "package_name",
		}).AddRow(int64(7), int64(3), "5000.00", bookedAt, returnAt, "Cebu", "ana@example.com", "Ana", "Gold"))

	details, err := repo.GetConfirmationDetails(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), details.BookingID)
	assert.Equal(t, "ana@example.com", details.CustomerEmail)
	assert.Equal(t, "Ana", details.FirstName)
	assert.Equal(t, "Gold", details.PackageName)
	assert.Equal(t, "Cebu", details.EventLocation)
	assert.InDelta(t, 5000, details.Price, 0.001)
	assert.Equal(t, bookedAt, *details.DateOfBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConfirmationDetails_NotFound(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM booking")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}))

	details, err := repo.GetConfirmationDetails(context.Background(), 9)

	assert.NoError(t, err)
	assert.Zero(t, details.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
