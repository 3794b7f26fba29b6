package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// requestError is a malformed body, rejected before the service is called.
type requestError struct {
	message string
	details map[string]string
}

func (e *requestError) Error() string {
	return e.message
}

type addToCartRequest struct {
	ItemName string `json:"itemName" validate:"required,max=200"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type checkoutRequest struct {
	SaleDate string `json:"saleDate" validate:"omitempty,datetime=2006-01-02"`
}

func decodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return &requestError{message: "request body is empty"}
		}
		return &requestError{message: "invalid request body", details: map[string]string{"error": err.Error()}}
	}

	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *requestError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &requestError{message: "validation failed"}
	}

	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return &requestError{message: "validation failed", details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	}
	return "is invalid"
}
