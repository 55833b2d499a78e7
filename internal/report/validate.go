package report

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parameter names carrying the cross-field date-range rule.
const (
	startDateParam = "startDate"
	endDateParam   = "endDate"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Validate checks supplied against the template's parameter contract and
// returns every violation found. An empty slice means the input is valid.
//
// A missing required parameter short-circuits the remaining checks for that
// parameter only. A type mismatch does not: constraint checks still run, so
// a single pass can report both a type error and a constraint error for the
// same field.
func Validate(t *Template, supplied map[string]any) []string {
	var errs []string

	for _, p := range t.Parameters {
		value, present := supplied[p.Name]
		if !present || isEmpty(value) {
			if p.Required {
				errs = append(errs, fmt.Sprintf("parameter %s is required", p.Name))
			}
			// Optional and absent: the default is applied later, not validated.
			continue
		}

		errs = append(errs, checkType(p, value)...)
		errs = append(errs, checkConstraints(p, value)...)
	}

	errs = append(errs, checkDateRange(t, supplied)...)
	return errs
}

// checkType verifies the supplied value against the declared type.
func checkType(p Parameter, value any) []string {
	switch p.Type {
	case TypeNumber:
		if _, ok := toNumber(value); !ok {
			return []string{fmt.Sprintf("parameter %s must be a number", p.Name)}
		}
	case TypeDate:
		if _, ok := toDate(value); !ok {
			return []string{fmt.Sprintf("parameter %s must be a valid date", p.Name)}
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("parameter %s must be a boolean", p.Name)}
		}
	case TypeArray:
		if !isSequence(value) {
			return []string{fmt.Sprintf("parameter %s must be an array", p.Name)}
		}
	}
	return nil
}

// checkConstraints applies min/max, pattern and enum rules. Checks that
// cannot evaluate against the supplied value (e.g. a range check on a value
// that does not parse) are skipped; the type check already reported those.
func checkConstraints(p Parameter, value any) []string {
	c := p.Constraints
	if c == nil {
		return nil
	}
	var errs []string

	if c.Min != nil {
		if below, ok := compare(p.Type, value, c.Min); ok && below < 0 {
			errs = append(errs, fmt.Sprintf("parameter %s must be at least %v", p.Name, c.Min))
		}
	}
	if c.Max != nil {
		if above, ok := compare(p.Type, value, c.Max); ok && above > 0 {
			errs = append(errs, fmt.Sprintf("parameter %s must be at most %v", p.Name, c.Max))
		}
	}
	if c.Pattern != "" {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			errs = append(errs, fmt.Sprintf("parameter %s has an invalid pattern constraint", p.Name))
		} else if !re.MatchString(stringify(value)) {
			errs = append(errs, fmt.Sprintf("parameter %s does not match the required pattern", p.Name))
		}
	}
	if len(c.Enum) > 0 && !enumContains(c.Enum, value) {
		errs = append(errs, fmt.Sprintf("parameter %s must be one of %s", p.Name, enumLabel(c.Enum)))
	}
	return errs
}

// checkDateRange enforces the cross-field rule: when both startDate and
// endDate are supplied, start must not be after end and the inclusive span
// must not exceed the template's cap. Applies regardless of whether the
// template declares those parameters.
func checkDateRange(t *Template, supplied map[string]any) []string {
	startRaw, hasStart := supplied[startDateParam]
	endRaw, hasEnd := supplied[endDateParam]
	if !hasStart || !hasEnd || isEmpty(startRaw) || isEmpty(endRaw) {
		return nil
	}
	start, okS := toDate(startRaw)
	end, okE := toDate(endRaw)
	if !okS || !okE {
		// Unparseable dates are reported by the per-parameter type check.
		return nil
	}

	var errs []string
	if start.After(end) {
		errs = append(errs, "start date must be before or equal to end date")
	} else {
		maxDays := t.maxSpanDays()
		if end.Sub(start) > time.Duration(maxDays)*24*time.Hour {
			errs = append(errs, fmt.Sprintf("date range must not exceed %d days", maxDays))
		}
	}
	return errs
}

// isEmpty treats nil and the empty string as "not supplied".
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func toDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func isSequence(v any) bool {
	switch v.(type) {
	case []any, []string, []int, []int64, []float64:
		return true
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// compare orders value against bound in the declared type's natural
// ordering: dates for date parameters, numbers for number parameters,
// lexicographic otherwise. The second return is false when either side
// cannot be interpreted in that ordering.
func compare(pt ParamType, value, bound any) (int, bool) {
	switch pt {
	case TypeDate:
		v, okV := toDate(value)
		b, okB := toDate(bound)
		if !okV || !okB {
			return 0, false
		}
		switch {
		case v.Before(b):
			return -1, true
		case v.After(b):
			return 1, true
		}
		return 0, true
	case TypeNumber:
		v, okV := toNumber(value)
		b, okB := toNumber(bound)
		if !okV || !okB {
			return 0, false
		}
		switch {
		case v < b:
			return -1, true
		case v > b:
			return 1, true
		}
		return 0, true
	default:
		return strings.Compare(stringify(value), stringify(bound)), true
	}
}

func enumContains(enum []any, value any) bool {
	vs := stringify(value)
	for _, e := range enum {
		if stringify(e) == vs {
			return true
		}
	}
	return false
}

func enumLabel(enum []any) string {
	parts := make([]string, len(enum))
	for i, e := range enum {
		parts[i] = stringify(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
