package response

import "ctchen222/movie-catalog/internal/validator"

// ErrorBody is the extras payload of every failed request.
type ErrorBody struct {
	Message string                `json:"message"`
	Errors  []validator.Violation `json:"errors,omitempty"`
}
