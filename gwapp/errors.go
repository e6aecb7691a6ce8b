package gwapp

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Error is a handler error with an HTTP status.
type Error struct {
	Status  int               `json:"-"`
	Message string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Errorf creates an Error with a formatted message.
func Errorf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NotFound is shorthand for a 404 Error.
func NotFound(format string, args ...any) *Error {
	return Errorf(http.StatusNotFound, format, args...)
}

// toError maps any handler error onto an Error. Unknown errors become 500s.
func toError(err error) *Error {
	var herr *Error
	if errors.As(err, &herr) {
		return herr
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make(map[string]string, len(valErrs))
		messages := make([]string, 0, len(valErrs))
		for _, ve := range valErrs {
			msg := formatValidationError(ve)
			details[ve.Field()] = msg
			messages = append(messages, ve.Field()+": "+msg)
		}
		return &Error{Status: http.StatusBadRequest, Message: strings.Join(messages, "; "), Details: details}
	}

	return &Error{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	herr := toError(err)
	if herr.Status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(herr.Status)
	if err := json.NewEncoder(w).Encode(herr); err != nil {
		logger.Error("failed to encode error", slog.Any("error", err))
	}
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func hasRule(tag, rule string) bool {
	for r := range strings.SplitSeq(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}
