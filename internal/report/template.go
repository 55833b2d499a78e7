package report

// ParamType enumerates the supported parameter types.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeDate    ParamType = "date"
	TypeBoolean ParamType = "boolean"
	TypeArray   ParamType = "array"
)

// Constraints holds optional per-parameter validation rules.
// Min and Max are compared in the parameter's declared type: as dates for
// date parameters, numerically otherwise.
type Constraints struct {
	Min     any
	Max     any
	Pattern string
	Enum    []any
}

// Parameter declares one input of a report template.
type Parameter struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Constraints *Constraints
}

// Template is an immutable report definition: a query skeleton with optional
// fragments, the parameter contract, and the role gate. Templates are
// registered once at startup and never mutated afterwards.
type Template struct {
	ID            string
	Name          string
	Description   string
	Category      string
	QuerySkeleton string
	Parameters    []Parameter
	AllowedRoles  []string

	// MaxDateRangeDays caps the inclusive startDate..endDate span.
	// Zero means the default of 365 days.
	MaxDateRangeDays int
}

const defaultMaxDateRangeDays = 365

// maxSpanDays returns the effective date-range cap for the template.
func (t *Template) maxSpanDays() int {
	if t.MaxDateRangeDays > 0 {
		return t.MaxDateRangeDays
	}
	return defaultMaxDateRangeDays
}

// AllowsRole reports whether role may execute the template.
func (t *Template) AllowsRole(role string) bool {
	for _, r := range t.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// parameter looks up a declared parameter by name.
func (t *Template) parameter(name string) (Parameter, bool) {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}
