package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"guesthouse/infras/otel"
	"guesthouse/infras/postgres"
	"guesthouse/internal/domains/user/model"
	gDto "guesthouse/shared/dto"
	gRepo "guesthouse/shared/repository"
)

// ErrDuplicate marks a unique violation on the email column.
var ErrDuplicate = gRepo.ErrDuplicate

// User stores staff accounts. Lookups return a zero User when nothing matches.
type User interface {
	Insert(ctx context.Context, user model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// By matches one column exactly. The arg name is prefixed so it never
// collides with SET columns of an update.
func By(field string, value any) gDto.FilterGroup {
	return gDto.And(gDto.Filter{
		ArgName:  "where_" + field,
		Field:    field,
		Value:    value,
		Operator: gDto.FilterOperatorEq,
		Table:    model.TableName,
	})
}

func (r *repositoryImpl) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.Get(ctx, By(model.FieldID, id))
}

func (r *repositoryImpl) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return r.Get(ctx, By(model.FieldEmail, model.NormalizeEmail(email)))
}

func (r *repositoryImpl) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.Exist(ctx, By(model.FieldEmail, model.NormalizeEmail(email)))
}

func (r *repositoryImpl) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.Update(ctx, fields, By(model.FieldID, id))
}
