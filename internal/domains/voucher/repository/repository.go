package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"bookpay/infras/otel"
	"bookpay/infras/postgres"
	"bookpay/internal/domains/voucher/model"
	"bookpay/shared/constant"
	gDto "bookpay/shared/dto"
	gRepo "bookpay/shared/repository"
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Voucher interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Voucher, error)
	SettleTx(ctx context.Context, sqltx *sqlx.Tx, settlement model.Settlement) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Voucher]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Voucher {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Voucher](model.EntityName, model.TableName, model.FieldCode, db, otel),
		otel:       otel,
	}
}

// SettleTx marks the voucher used by the booking, keyed by code. Only an unused voucher is
// written; otherwise ErrVoucherUnavailable is returned so the caller rolls back.
func (r *repositoryImpl) SettleTx(ctx context.Context, sqltx *sqlx.Tx, settlement model.Settlement) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".voucher.SettleTx")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCode, Value: settlement.Code, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "was_used", Field: model.FieldIsUsed, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	affected, err := r.UpdateTxAffected(ctx, sqltx, settlement.Fields(), filter)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to settle voucher %s: %w", settlement.Code, err)
	}

	if affected == 0 {
		scope.TraceError(model.ErrVoucherUnavailable)

		return fmt.Errorf("failed to settle voucher %s: %w", settlement.Code, model.ErrVoucherUnavailable)
	}

	return nil
}
