// Package inputval validates form input structs using waffle/pantry/validate.
//
// Define an input struct with `validate` tags and optional `label` tags,
// populate it from form values, and call Validate for user-friendly error
// messages:
//
//	type HoursInput struct {
//	    Name  string `validate:"required,max=200" label:"Name"`
//	    Date  string `validate:"required,reportdate" label:"Date"`
//	    Hours string `validate:"required,money" label:"Hours"`
//	}
package inputval

import (
	"net/mail"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movehq/moveboard/internal/domain/models"
	"github.com/movehq/moveboard/internal/report"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError is a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "" if there are none.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// All returns every error message joined with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	customValidator *validate.Validator
	validatorOnce   sync.Once
)

// getValidator returns the singleton validator with custom rules registered.
func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New(validate.WithStopOnFirstError())

		// role: one of the console roles
		customValidator.RegisterRuleFunc("role", func(value any) bool {
			if s, ok := value.(string); ok {
				return models.IsValidRole(strings.ToLower(strings.TrimSpace(s)))
			}
			return false
		}, "role")

		// reportdate: a date in DD/MM/YYYY or YYYY-MM-DD form
		customValidator.RegisterRuleFunc("reportdate", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidReportDate(s)
			}
			return false
		}, "reportdate")

		// money: a numeric amount, tolerant of currency formatting
		customValidator.RegisterRuleFunc("money", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidAmount(s)
			}
			return false
		}, "money")

		// objectid: a valid MongoDB ObjectID hex string
		customValidator.RegisterRuleFunc("objectid", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidObjectID(s)
			}
			return false
		}, "objectid")
	})
	return customValidator
}

// Validate checks a struct against its `validate` tags and returns a Result
// with messages phrased for end users. Supported rules are pantry/validate's
// built-ins (required, email, oneof, min, max) plus the custom rules this
// package registers: role, reportdate, money, objectid.
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}

	labels := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}
			result.Errors = append(result.Errors, FieldError{
				Field:   e.Field,
				Label:   label,
				Message: formatMessage(label, e.Rule, e.Param),
			})
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields, keyed by the
// json tag name when one is present.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels
}

func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "role":
		return label + " must be one of: " + strings.Join(models.AllRoles(), ", ") + "."
	case "reportdate":
		return label + " must be a date like 25/12/2024."
	case "money":
		return label + " must be a number."
	case "objectid":
		return label + " is not a valid ID."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail reports whether the string is a bare RFC 5322 address.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// ParseAddress also accepts "Name <email>"; require the bare form.
	return addr.Address == email
}

// IsValidReportDate reports whether the string parses as one of the date
// forms the reports accept.
func IsValidReportDate(s string) bool {
	_, ok := report.ParseDate(strings.TrimSpace(s))
	return ok
}

// IsValidAmount reports whether the string holds a numeric amount.
// Currency prefixes and comma decimals are accepted, so the check is
// just "contains a digit"; parsing itself never fails, it defaults to 0.
func IsValidAmount(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && strings.ContainsAny(s, "0123456789")
}

// IsValidObjectID reports whether the string is a valid ObjectID hex.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
