package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"guesthouse/shared/failure"
	"io"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps how much of a request body is decoded.
const MaxBodyBytes = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}

	return v
}

// jsonFieldName reports fields by their wire name so messages match the request.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

func notBlank(fl val.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)

	return ok && strings.TrimSpace(str) != ""
}

// Validate decodes a JSON body into data and validates it. Decode problems
// are bad requests; rule violations are validation errors.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(io.LimitReader(r, MaxBodyBytes))

	if err := decoder.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return failure.BadRequestFromString("request body is empty") //nolint:wrapcheck
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.ValidationError(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.ValidationError(message(err)) //nolint:wrapcheck
	}

	return nil
}
