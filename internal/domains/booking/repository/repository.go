package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bookpay/infras/otel"
	"bookpay/infras/postgres"
	"bookpay/internal/domains/booking/model"
	"bookpay/shared/constant"
	gDto "bookpay/shared/dto"
	"bookpay/shared/logger"
	gRepo "bookpay/shared/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	sumPaymentsQuery = `SELECT COALESCE(SUM(booking.last_payment_amount), 0) FROM booking %s`

	confirmationDetailsQuery = `SELECT booking.booking_id, booking.customer_id, booking.price,
	booking.date_of_booking, booking.date_of_return, COALESCE(booking.event_location, '') AS event_location,
	COALESCE(customer.email, '') AS email, COALESCE(customer.first_name, '') AS first_name,
	COALESCE(package.package_name, '') AS package_name
FROM booking
LEFT JOIN customer ON customer.customer_id = booking.customer_id
LEFT JOIN package ON package.package_id = booking.package_id
WHERE booking.booking_id = $1`
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error
	SumPaymentsTx(ctx context.Context, sqltx *sqlx.Tx, bookingID int64) (float64, error)
	GetConfirmationDetails(ctx context.Context, bookingID int64) (model.ConfirmationDetails, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldBookingID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// SumPaymentsTx totals the recorded payment amounts for a booking. No rows sum to 0.
func (r *repositoryImpl) SumPaymentsTx(ctx context.Context, sqltx *sqlx.Tx, bookingID int64) (float64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SumPaymentsTx")
	defer scope.End()

	where, args := r.BuildWhereClause(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldLastPaymentAmount, Operator: gDto.FilterIsNotNull, Table: model.TableName},
		},
	})

	query := fmt.Sprintf(sumPaymentsQuery, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := sqltx.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (booking): %w", err)
	}
	defer prepare.Close()

	var sum float64

	if err = prepare.GetContext(ctx, &sum, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum payments (booking): %w", err)
	}

	return sum, nil
}

// GetConfirmationDetails returns the zero value when the booking does not exist.
func (r *repositoryImpl) GetConfirmationDetails(ctx context.Context, bookingID int64) (model.ConfirmationDetails, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetConfirmationDetails")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, confirmationDetailsQuery)

	var details model.ConfirmationDetails

	// primary, since this runs right after the reconcile commit
	err := r.db.Write.GetContext(ctx, &details, confirmationDetailsQuery, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return details, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return details, fmt.Errorf("failed to get confirmation details (booking): %w", err)
	}

	return details, nil
}
