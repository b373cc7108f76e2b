package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/glennajones/gummy-bear/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields.
// An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// WriteServiceError maps a coded service error to the status registered for
// its code. Uncoded or unknown errors become 500 without leaking details.
func WriteServiceError(w http.ResponseWriter, err error, statuses map[string]int) error {
	var base *serrors.BaseError
	if !errors.As(err, &base) {
		return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
	status, known := statuses[base.Code]
	if !known {
		status = http.StatusInternalServerError
	}
	return WriteError(w, status, base.Code, base.Message, nil)
}

// WriteValidationError reports validator failures as 422 with one meta entry
// per failing field.
func WriteValidationError(w http.ResponseWriter, err error) error {
	meta := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			meta[fe.Field()] = fe.Tag()
		}
	}
	return WriteError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "request validation failed", meta)
}
