package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Detail string `json:"detail"`

	// Per-field validation messages, present on 422 only
	Errors map[string]string `json:"errors,omitempty"`
}

// MessageResponse is the body of responses that only confirm an action.
// swagger:model MessageResponse
type MessageResponse struct {
	// Success message
	Message string `json:"message"`
}

const (
	detailInvalidBody      = "Invalid request body"
	detailValidationFailed = "Validation failed"
	detailInternalError    = "Internal server error"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("maxbytes72", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	// PostgreSQL text columns cannot hold NUL.
	v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and validates it.
// On failure the error response is already written and false is returned.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: detailInvalidBody})
		return false
	}

	return validateRequest(w, dst)
}

// validateRequest runs the struct validation rules on an already decoded request.
func validateRequest(w http.ResponseWriter, dst any) bool {
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: detailInvalidBody})
			return false
		}
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = formatFieldError(fe)
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Detail: detailValidationFailed,
			Errors: details,
		})
		return false
	}

	return true
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "maxbytes72":
		return "must be at most 72 bytes long"
	case "nonul":
		return "must not contain NUL characters"
	default:
		return "validation failed for '" + fe.Tag() + "'"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
