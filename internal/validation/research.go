package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"job-research/pkg/models"
)

// ValidateNotBlank rejects strings that are empty after trimming whitespace
func ValidateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// ValidateSalaryRange requires salary_min <= salary_max when both are present
func ValidateSalaryRange(sl validator.StructLevel) {
	q := sl.Current().Interface().(models.ResearchQuery)
	if q.SalaryMin != nil && q.SalaryMax != nil && *q.SalaryMin > *q.SalaryMax {
		sl.ReportError(q.SalaryMax, "salary_max", "SalaryMax", "gtefield_salary_min", "")
	}
}

// RegisterResearchValidators registers all research-related custom validators
func RegisterResearchValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", ValidateNotBlank)
	v.RegisterStructValidation(ValidateSalaryRange, models.ResearchQuery{})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// New returns a validator with the research validators registered
func New() *validator.Validate {
	v := validator.New()
	RegisterResearchValidators(v)
	return v
}

// FieldProblem describes one rejected field in caller-facing terms
type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Describe flattens validator errors into caller-facing field problems
func Describe(err error) []FieldProblem {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldProblem{{Field: "", Message: err.Error()}}
	}

	problems := make([]FieldProblem, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, FieldProblem{Field: fe.Field(), Message: describeTag(fe)})
	}
	return problems
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield_salary_min":
		return "must be greater than or equal to salary_min"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
