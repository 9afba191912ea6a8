package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/gwilson152/TradePulse-new/internal/errors"
)

// TradingDateLayout is the accepted format for trading dates.
const TradingDateLayout = "2006-01-02"

// Validator validates request structs using struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("tradingdate", isTradingDate)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates s and returns one entry per failed field. The error is
// non-nil only when s cannot be validated at all.
func (v *Validator) Struct(s interface{}) ([]apierrors.ValidationError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return out, nil
}

// Validate is Struct folded into a single error suitable for an API response
func (v *Validator) Validate(s interface{}) error {
	fieldErrs, err := v.Struct(s)
	if err != nil {
		return err
	}
	if len(fieldErrs) > 0 {
		return apierrors.NewValidationErrors(fieldErrs)
	}
	return nil
}

// ParseTradingDate parses a trading date as midnight in loc. An empty string
// yields nil.
func ParseTradingDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(TradingDateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("trading date %q: expected YYYY-MM-DD", value)
	}
	return &t, nil
}

func isTradingDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := time.Parse(TradingDateLayout, value)
	return err == nil
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "tradingdate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "base64":
		return fmt.Sprintf("%s must be base64 encoded", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
