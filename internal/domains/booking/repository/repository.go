package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guesthouse/infras/otel"
	"guesthouse/infras/postgres"
	"guesthouse/internal/domains/booking/model"
	"guesthouse/shared/constant"
	gDto "guesthouse/shared/dto"
	gRepo "guesthouse/shared/repository"
)

// ErrDuplicate marks a unique violation, e.g. a booking id collision.
var ErrDuplicate = gRepo.ErrDuplicate

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// Transition updates the booking only while its status still equals from,
	// and reports whether a row changed.
	Transition(ctx context.Context, tempID, from string, fields map[string]any) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Transition(ctx context.Context, tempID, from string, fields map[string]any) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transition")
	defer scope.End()

	affected, err := r.UpdateAffected(ctx, fields, TransitionFilter(tempID, from))
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to transition booking %s: %w", tempID, err)
	}

	return affected > 0, nil
}

// TransitionFilter matches the booking by temp id and expected current status.
// Arg names are prefixed so they never collide with the SET columns.
func TransitionFilter(tempID, from string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				ArgName:  "where_" + model.FieldTempID,
				Field:    model.FieldTempID,
				Value:    tempID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "where_" + model.FieldStatus,
				Field:    model.FieldStatus,
				Value:    from,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
