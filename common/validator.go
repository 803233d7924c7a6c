package common

import (
	"encoding/json"
	"net/http"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("password", passwordComplexity); err != nil {
		panic(err)
	}
	return v
}

// passwordComplexity requires at least one uppercase letter, one
// lowercase letter and one digit. Length is checked separately by the
// min tag.
func passwordComplexity(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidateAndDecode decodes the JSON body into payload and checks its
// validation tags. On failure it writes a 400 with field-level detail
// and returns false; the handler should then return without a response.
func ValidateAndDecode(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
		return false
	}

	if err := validate.Struct(payload); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			NewAppError(http.StatusBadRequest, "Invalid request body", err).Send(w)
			return false
		}

		fields := make([]fieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    http.StatusBadRequest,
			"message": "Validation failed",
			"fields":  fields,
		})
		return false
	}

	return true
}
