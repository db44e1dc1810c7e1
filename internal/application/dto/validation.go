package dto

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
	"github.com/bibbank/fraud-predictor/internal/domain/valueobject"
)

// ErrInvalidInput marks a rejected submission.
var ErrInvalidInput = errors.New("invalid transaction input")

// FieldError describes why one input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InputError is returned for submissions that fail validation.
type InputError struct {
	Fields []FieldError
}

func (e *InputError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// FieldMessage returns the message for a field, or "" when it passed.
func (e *InputError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validator checks TransactionRequest values against the form bounds.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator with the transaction rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return valueobject.IsKnownCategory(fl.Field().String())
	})
	mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
		return valueobject.IsKnownGender(fl.Field().String())
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Input normalizes and validates the request and maps it to the domain input.
func (v *Validator) Input(req TransactionRequest) (model.TransactionInput, error) {
	req.Normalize()

	if err := v.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.TransactionInput{}, fmt.Errorf("validate transaction: %w", err)
		}
		return model.TransactionInput{}, toInputError(verrs)
	}

	return req.ToInput(), nil
}

func toInputError(verrs validator.ValidationErrors) *InputError {
	out := &InputError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "alpha":
		return "must contain only letters"
	case "category":
		return "must be one of " + strings.Join(valueobject.KnownCategories(), ", ")
	case "gender":
		return "must be one of " + strings.Join(valueobject.KnownGenders(), ", ")
	case "finite":
		return "must be a finite number"
	default:
		return "is invalid"
	}
}
