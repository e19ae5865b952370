package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report payload keys, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRules runs the struct tag rules of s. Fields already reported in
// skip (type errors from the overlay) are not reported twice.
func checkRules(s any, skip FieldErrors) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("body", err.Error())
		return errs
	}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		if skipped(skip, field) {
			continue
		}
		errs.Add(field, ruleMessage(field, fe))
	}
	return errs
}

// fieldPath converts "Member.marketing_permissions[0].enabled" into
// "marketing_permissions.0.enabled".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func skipped(skip FieldErrors, field string) bool {
	for f := range skip {
		if f == field || strings.HasPrefix(field, f+".") {
			return true
		}
	}
	return false
}

func ruleMessage(field string, fe validator.FieldError) string {
	label := Label(field)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "latitude", "longitude":
		return fmt.Sprintf("The %s must be a valid %s.", label, fe.Tag())
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}
