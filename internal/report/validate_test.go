package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validationTemplate() *Template {
	return &Template{
		ID: "t",
		Parameters: []Parameter{
			{Name: "startDate", Type: TypeDate, Required: true},
			{Name: "endDate", Type: TypeDate, Required: true},
			{Name: "gradeLevel", Type: TypeString, Constraints: &Constraints{Pattern: `^\d{1,2}$`}},
			{Name: "limit", Type: TypeNumber, Constraints: &Constraints{Min: 1, Max: 1000}},
			{Name: "severity", Type: TypeString, Constraints: &Constraints{Enum: []any{"minor", "major", "severe"}}},
			{Name: "includeInactive", Type: TypeBoolean},
			{Name: "homerooms", Type: TypeArray},
		},
	}
}

func validParams() map[string]any {
	return map[string]any{
		"startDate": "2024-09-01",
		"endDate":   "2024-12-20",
	}
}

func TestValidateAccepts(t *testing.T) {
	params := validParams()
	params["gradeLevel"] = "9"
	params["limit"] = 50
	params["severity"] = "minor"
	params["includeInactive"] = true
	params["homerooms"] = []string{"A1", "B2"}

	assert.Empty(t, Validate(validationTemplate(), params))
}

func TestValidateRequired(t *testing.T) {
	errs := Validate(validationTemplate(), map[string]any{"endDate": "2024-12-20"})
	assert.Contains(t, errs, "parameter startDate is required")

	// nil and empty string count as absent.
	errs = Validate(validationTemplate(), map[string]any{"startDate": "", "endDate": nil})
	assert.Contains(t, errs, "parameter startDate is required")
	assert.Contains(t, errs, "parameter endDate is required")
}

// A missing required parameter is reported regardless of whether the other
// parameters are valid.
func TestValidateRequiredIndependentOfOthers(t *testing.T) {
	errs := Validate(validationTemplate(), map[string]any{
		"endDate":    "2024-12-20",
		"gradeLevel": "not-a-grade",
	})
	assert.Contains(t, errs, "parameter startDate is required")
	assert.Contains(t, errs, "parameter gradeLevel does not match the required pattern")
}

func TestValidateOptionalAbsentSkipped(t *testing.T) {
	assert.Empty(t, Validate(validationTemplate(), validParams()))
}

func TestValidateTypes(t *testing.T) {
	params := validParams()
	params["limit"] = "plenty"
	params["includeInactive"] = "yes"
	params["homerooms"] = "A1"

	errs := Validate(validationTemplate(), params)
	assert.Contains(t, errs, "parameter limit must be a number")
	assert.Contains(t, errs, "parameter includeInactive must be a boolean")
	assert.Contains(t, errs, "parameter homerooms must be an array")
}

func TestValidateNumericString(t *testing.T) {
	params := validParams()
	params["limit"] = "25"
	assert.Empty(t, Validate(validationTemplate(), params))
}

func TestValidateDateType(t *testing.T) {
	params := validParams()
	params["startDate"] = "not-a-date"
	errs := Validate(validationTemplate(), params)
	assert.Contains(t, errs, "parameter startDate must be a valid date")
}

func TestValidateRange(t *testing.T) {
	params := validParams()
	params["limit"] = 0
	errs := Validate(validationTemplate(), params)
	assert.Contains(t, errs, "parameter limit must be at least 1")

	params["limit"] = 5000
	errs = Validate(validationTemplate(), params)
	assert.Contains(t, errs, "parameter limit must be at most 1000")
}

func TestValidateDateRangeConstraint(t *testing.T) {
	tpl := &Template{
		ID: "t",
		Parameters: []Parameter{
			{Name: "asOf", Type: TypeDate, Constraints: &Constraints{Min: "2020-01-01", Max: "2030-12-31"}},
		},
	}
	errs := Validate(tpl, map[string]any{"asOf": "2019-06-01"})
	assert.Contains(t, errs, "parameter asOf must be at least 2020-01-01")
	assert.Empty(t, Validate(tpl, map[string]any{"asOf": "2024-06-01"}))
}

func TestValidateEnum(t *testing.T) {
	params := validParams()
	params["severity"] = "catastrophic"
	errs := Validate(validationTemplate(), params)
	assert.Contains(t, errs, "parameter severity must be one of [minor, major, severe]")
}

// A type mismatch does not short-circuit the constraint checks: one pass can
// report both kinds of violation for the same field.
func TestValidateTypeAndConstraintTogether(t *testing.T) {
	tpl := &Template{
		ID: "t",
		Parameters: []Parameter{
			{Name: "code", Type: TypeNumber, Constraints: &Constraints{Pattern: `^\d+$`}},
		},
	}
	errs := Validate(tpl, map[string]any{"code": "abc"})
	assert.Contains(t, errs, "parameter code must be a number")
	assert.Contains(t, errs, "parameter code does not match the required pattern")
	assert.Len(t, errs, 2)
}

func TestValidateDateRangeOrdering(t *testing.T) {
	params := map[string]any{
		"startDate": "2024-09-01",
		"endDate":   "2024-08-01",
	}
	errs := Validate(validationTemplate(), params)
	assert.Contains(t, errs, "start date must be before or equal to end date")
}

func TestValidateDateRangeSpan(t *testing.T) {
	tpl := validationTemplate()

	// Longer than a year is rejected.
	errs := Validate(tpl, map[string]any{
		"startDate": "2023-01-01",
		"endDate":   "2024-06-01",
	})
	assert.Contains(t, errs, "date range must not exceed 365 days")

	// Exactly 365 days is accepted.
	assert.Empty(t, Validate(tpl, map[string]any{
		"startDate": "2023-01-01",
		"endDate":   "2024-01-01",
	}))

	// One day past the cap is rejected.
	errs = Validate(tpl, map[string]any{
		"startDate": "2023-01-01",
		"endDate":   "2024-01-02",
	})
	assert.Contains(t, errs, "date range must not exceed 365 days")
}

func TestValidateDateRangePerTemplateCap(t *testing.T) {
	tpl := validationTemplate()
	tpl.MaxDateRangeDays = 30

	errs := Validate(tpl, map[string]any{
		"startDate": "2024-01-01",
		"endDate":   "2024-03-01",
	})
	assert.Contains(t, errs, "date range must not exceed 30 days")
}

// The cross-field rule applies even when the template does not declare the
// date parameters.
func TestValidateDateRangeWithoutDeclaration(t *testing.T) {
	tpl := &Template{ID: "t"}
	errs := Validate(tpl, map[string]any{
		"startDate": "2024-09-01",
		"endDate":   "2024-08-01",
	})
	assert.Contains(t, errs, "start date must be before or equal to end date")
}

func TestValidateCollectsAllViolations(t *testing.T) {
	params := map[string]any{
		"startDate":  "2024-09-01",
		"gradeLevel": "ninth",
		"limit":      "plenty",
		"severity":   "bad",
	}
	errs := Validate(validationTemplate(), params)
	assert.GreaterOrEqual(t, len(errs), 4)
}
