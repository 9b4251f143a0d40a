package validator

import (
	"ctchen222/movie-catalog/internal/api/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("birthday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseBirthday(fl.Field().String())
		return err == nil
	})
}

// Violation is a single failed rule, shaped like an express-validator entry.
type Violation struct {
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// Rule checks one value against one validator tag.
type Rule struct {
	Field   string
	Value   any
	Tag     string
	Message string
}

// Check runs every rule and returns all violations, not only the first per field.
func Check(rules ...Rule) []Violation {
	var out []Violation
	for _, r := range rules {
		if err := validate.Var(r.Value, r.Tag); err != nil {
			out = append(out, Violation{
				Value:    r.Value,
				Msg:      r.Message,
				Param:    r.Field,
				Location: "body",
			})
		}
	}
	return out
}
