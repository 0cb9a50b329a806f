package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// shortenRequest carries the parameters of POST /ShortenURL. URL is nil when
// the parameter is absent; an empty value is accepted.
type shortenRequest struct {
	URL *string `form:"url" validate:"required"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse is the body of every error response, {"detail": ...}.
type errorResponse struct {
	Detail any `json:"detail"`
}

var (
	urlNotFoundResponse = errorResponse{
		Detail: "URL not found",
	}

	serverErrorResponse = errorResponse{
		Detail: http.StatusText(http.StatusInternalServerError),
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Detail: getValidationErrors(err),
	}
}
