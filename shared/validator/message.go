package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"notblank": "{field} must not be blank",
	"email":    "{field} must be a valid email address",
	"oneof":    "{field} must be one of {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be at least {param}",
	"max":      "{field} must be at most {param}",
	"datetime": "{field} must match the format {param}",
	"nefield":  "{field} must differ from {param}",
}

// layouts spells Go time layouts the way a form user reads them.
var layouts = strings.NewReplacer("2006", "YYYY", "01", "MM", "02", "DD", "15", "HH", "04", "mm")

// message describes the first violation in err that has a template.
func message(err error) string {
	var errs val.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	for _, fe := range errs {
		template, ok := messages[fe.Tag()]
		if !ok {
			continue
		}

		param := fe.Param()
		if fe.Tag() == "datetime" {
			param = layouts.Replace(param)
		}

		return strings.NewReplacer("{field}", fe.Field(), "{param}", param).Replace(template)
	}

	return errs.Error()
}
