// Package validate checks struct tags and single values with
// go-playground/validator, reporting failures as errs.FieldErrors.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/shopapi/errs"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("validate: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// Check validates the provided model against its declared tags.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		return fieldErrors("", err)
	}

	return nil
}

// Var validates a single value against tag, naming it field in the
// returned errs.FieldErrors.
func Var(field string, val any, tag string) error {
	if err := validate.Var(val, tag); err != nil {
		return fieldErrors(field, err)
	}

	return nil
}

func fieldErrors(name string, err error) error {
	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	var fields errs.FieldErrors
	for _, verror := range verrors {
		field := name
		if field == "" {
			field = verror.Field()
		}

		fields = append(fields, errs.FieldError{
			Field: field,
			Err:   customErrForTag(field, verror),
		})
	}

	return fields
}

func customErrForTag(field string, verror validator.FieldError) string {
	switch verror.Tag() {
	case "required":
		return "This field is required"
	case "http_url":
		return field + " must be an absolute http(s) URL"
	default:
		msg := verror.Translate(translator)
		if verror.Field() == "" && field != "" {
			msg = field + msg
		}
		return msg
	}
}
