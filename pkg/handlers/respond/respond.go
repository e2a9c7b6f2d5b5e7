// Package respond holds the request decoding and response helpers shared by
// the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/storage"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler may continue.
// An empty body is accepted when optional is set.
func Decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest, nil)
			return false
		}
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			Error(w, "Invalid request", http.StatusUnprocessableEntity, verrs)
			return false
		}
		Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest, nil)
		return false
	}
	return true
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Error writes an api.Error. Validation failures are listed per field.
func Error(w http.ResponseWriter, message string, status int, verrs validator.ValidationErrors) {
	body := api.Error{Message: message}
	if len(verrs) > 0 {
		body.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			body.Details[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
	}
	JSON(w, status, body)
}

// Fail writes the response for an error returned by the domain layer.
func Fail(w http.ResponseWriter, action string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		Error(w, fmt.Sprintf("Failed to %s: %v", action, err), status, nil)
		return
	}
	Error(w, rootMessage(err), status, nil)
}

// StatusFor maps a domain error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrAccountNotFound), errors.Is(err, storage.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrRequestNotPending):
		return http.StatusConflict
	case errors.Is(err, storage.ErrInsufficientFunds),
		errors.Is(err, storage.ErrBelowMinimumWithdrawal),
		errors.Is(err, storage.ErrInvalidAmountFormat),
		errors.Is(err, storage.ErrInvalidPaymentMethod):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// rootMessage strips the "failed to ..." wrapping off a sentinel error.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
