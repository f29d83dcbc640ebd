package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Code classifies a field error.
type Code string

const (
	CodeRequired         Code = "required"
	CodeTooLong          Code = "too_long"
	CodeNotNumeric       Code = "not_numeric"
	CodeNotPositive      Code = "not_positive"
	CodeNegative         Code = "negative"
	CodeTooFew           Code = "too_few"
	CodeInvalid          Code = "invalid"
	CodeInsufficientCash Code = "insufficient_cash"
	CodeSubtotalMismatch Code = "subtotal_mismatch"
)

// FieldError is a rejection attached to one input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors is the outcome of a validation pass. An empty value means
// the input was accepted.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Valid reports whether no field was rejected.
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// Has reports whether field was rejected with code.
func (v ValidationErrors) Has(field string, code Code) bool {
	for _, fe := range v {
		if fe.Field == field && fe.Code == code {
			return true
		}
	}
	return false
}

// Field returns the first error attached to field, if any.
func (v ValidationErrors) Field(field string) (FieldError, bool) {
	for _, fe := range v {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Amounts are validated as numbers so required/gt/gte apply to them.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	// Report fields by their wire names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseForm turns raw form text into a PaymentForm. A cash value that is not
// a number is reported as CodeNotNumeric; an empty one is left at zero so
// ValidateForm reports it as missing.
func ParseForm(name, cash string) (PaymentForm, ValidationErrors) {
	form := PaymentForm{Name: strings.TrimSpace(name)}

	cash = strings.TrimSpace(cash)
	if cash == "" {
		return form, nil
	}

	amount, err := decimal.NewFromString(cash)
	if err != nil {
		return form, ValidationErrors{{
			Field:   "cash",
			Code:    CodeNotNumeric,
			Message: "cash must be a number",
		}}
	}
	form.Cash = amount

	return form, nil
}

// ValidateForm checks the shape of the form: name present and at most 255
// characters, cash present and above zero.
func ValidateForm(form PaymentForm) ValidationErrors {
	return structErrors(validate.Struct(form))
}

// ValidateCash checks that the cash tendered covers sub total plus tax.
func ValidateCash(form PaymentForm, cart CartSnapshot) ValidationErrors {
	if form.Cash.LessThan(Total(cart)) {
		return ValidationErrors{{
			Field:   "cash",
			Code:    CodeInsufficientCash,
			Message: "cash must be greater than total",
		}}
	}
	return nil
}

// Validate runs ValidateForm and, when the form is well formed, ValidateCash.
func Validate(form PaymentForm, cart CartSnapshot) ValidationErrors {
	if errs := ValidateForm(form); !errs.Valid() {
		return errs
	}
	return ValidateCash(form, cart)
}

// ValidateOrderRequest checks an order body as received by the server: its
// shape, the cash rule, and that sub_total agrees with the detail lines.
func ValidateOrderRequest(req OrderRequest) ValidationErrors {
	if errs := structErrors(validate.Struct(req)); !errs.Valid() {
		return errs
	}

	if errs := ValidateCash(req.Form(), req.Cart()); !errs.Valid() {
		return errs
	}

	if sum := SumLineTotals(req.Details); !req.SubTotal.Equal(sum) {
		return ValidationErrors{{
			Field:   "sub_total",
			Code:    CodeSubtotalMismatch,
			Message: fmt.Sprintf("sub_total must equal the sum of details (%s)", sum.String()),
		}}
	}

	return nil
}

func structErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "", Code: CodeInvalid, Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, translate(fe))
	}
	return out
}

func translate(fe validator.FieldError) FieldError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	out := FieldError{Field: field}
	switch fe.Tag() {
	case "required":
		out.Code = CodeRequired
		out.Message = fmt.Sprintf("%s is a required field", fe.Field())
	case "max":
		out.Code = CodeTooLong
		out.Message = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		out.Code = CodeNotPositive
		out.Message = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		out.Code = CodeNotPositive
		if fe.Param() == "0" {
			out.Code = CodeNegative
		}
		out.Message = fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "min":
		out.Code = CodeTooFew
		out.Message = fmt.Sprintf("%s must have at least %s entries", fe.Field(), fe.Param())
	default:
		out.Code = CodeInvalid
		out.Message = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return out
}
