package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guesthouse/infras/otel"
	"guesthouse/infras/postgres"
	"guesthouse/shared/constant"
	"guesthouse/shared/dto"
	"guesthouse/shared/logger"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrRequiredFilter guards writes and existence checks against a missing WHERE.
	ErrRequiredFilter = errors.New("required filter")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")

	errNoFields = errors.New("no fields to update")
)

// Repository maps a struct with db tags onto one table.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	primary string
	columns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:      db,
		otel:    otl,
		table:   tableName,
		entity:  entityName,
		primary: primaryColumn,
		columns: Columns(reflect.TypeFor[T]()),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

// fail logs and traces err, then wraps it with the operation and entity.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, mapError(err))
}

// fetch runs a named read statement into dest. Single-row reads use get, lists use select.
func (repo *Repository[T]) fetch(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any, many bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer stmt.Close()

	if many {
		return stmt.SelectContext(ctx, dest, args) //nolint:wrapcheck
	}

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	query := InsertStatement(repo.table, repo.columns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := WhereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)
	if err := repo.fetch(ctx, scope, query, args, &exist, false); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the zero value when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var model T

	where, args := WhereClause(filter)
	query := SelectStatement(repo.table, repo.pick(columns), where, dto.QueryParams{Limit: 1}, args)

	err := repo.fetch(ctx, scope, query, args, &model, false)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	var models []T

	where, args := WhereClause(filter)
	query := SelectStatement(repo.table, repo.pick(columns), where, params, args)

	if err := repo.fetch(ctx, scope, query, args, &models, true); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	var count int

	where, args := WhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primary, repo.table, where)

	if err := repo.fetch(ctx, scope, query, args, &count, false); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	_, err := repo.UpdateAffected(ctx, fields, filter)

	return err
}

// UpdateAffected runs the update and reports how many rows matched the filter.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	query, args, err := UpdateStatement(repo.table, fields, filter)
	if err != nil {
		return 0, err
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

// pick narrows the mapped columns to the requested ones, keeping declaration order.
func (repo *Repository[T]) pick(requested []string) []string {
	if len(requested) == 0 {
		return repo.columns
	}

	return slices.DeleteFunc(slices.Clone(repo.columns), func(col string) bool {
		return !slices.Contains(requested, col)
	})
}

// WhereClause renders filter with a leading " WHERE", or "" with empty args.
func WhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

func InsertStatement(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

// SelectStatement adds ordering and pagination from params; the limit and
// offset values are written into args.
func SelectStatement(table string, columns []string, where string, params dto.QueryParams, args map[string]any) string {
	var b strings.Builder

	qualified := make([]string, len(columns))
	for i, col := range columns {
		qualified[i] = table + "." + col
	}

	fmt.Fprintf(&b, "SELECT %s FROM %s%s", strings.Join(qualified, ", "), table, where)

	if params.SortBy != "" && params.SortDir != "" {
		fmt.Fprintf(&b, " ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		b.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			b.WriteString(" OFFSET :offset")
		}
	}

	return b.String()
}

// UpdateStatement sets fields in sorted column order. The filter must not be empty.
func UpdateStatement(table string, fields map[string]any, filter dto.FilterGroup) (string, map[string]any, error) {
	where, args := WhereClause(filter)
	if where == "" {
		return "", nil, ErrRequiredFilter
	}

	if len(fields) == 0 {
		return "", nil, errNoFields
	}

	set := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		set = append(set, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	return fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(set, ", "), where), args, nil
}

// Columns lists the db tags of t, flattening embedded structs in place.
func Columns(t reflect.Type) []string {
	var columns []string

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, Columns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}

func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return fmt.Errorf("%w: %s: %w", ErrDuplicate, pqErr.Constraint, err)
	}

	return err
}
