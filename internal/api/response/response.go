package response

import (
	"net/http"

	"ctchen222/movie-catalog/internal/validator"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponseContent returns a JSON response with a success message and content
func SuccessResponseContent(c *gin.Context, content string) {
	SuccessResponse(c, map[string]any{"content": content})
}

// SuccessResponse returns a 200 JSON response with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(http.StatusOK, NewResponse(true, http.StatusOK, extras))
}

// CreatedResponse returns a 201 JSON response for a newly created resource
func CreatedResponse(c *gin.Context, extras any) {
	c.JSON(http.StatusCreated, NewResponse(true, http.StatusCreated, extras))
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, NewResponse(false, code, ErrorBody{Message: message}))
}

// ValidationErrorResponse returns a 422 listing every failed rule
func ValidationErrorResponse(c *gin.Context, violations []validator.Violation) {
	c.AbortWithStatusJSON(
		http.StatusUnprocessableEntity,
		NewResponse(false, http.StatusUnprocessableEntity, ErrorBody{
			Message: "validation failed",
			Errors:  violations,
		}),
	)
}
