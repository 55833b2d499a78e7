package report

// Caller roles recognized by the built-in catalog. The engine itself treats
// roles as opaque strings; these are just the labels the school templates
// gate on.
const (
	RoleAdmin     = "ADMIN"
	RoleRegistrar = "REGISTRAR"
	RoleTeacher   = "TEACHER"
	RoleCounselor = "COUNSELOR"
)

// BuiltinTemplates returns the stock catalog. New reports are added by
// registering more data, not by writing new code paths.
func BuiltinTemplates() []*Template {
	return []*Template{
		{
			ID:          "student-roster",
			Name:        "Student Roster",
			Description: "Enrolled students, optionally filtered by grade level, homeroom and enrollment window.",
			Category:    "students",
			QuerySkeleton: `SELECT s.id, s.last_name, s.first_name, s.grade_level, s.homeroom, s.enrolled_at
FROM students s
WHERE 1=1
{{#gradeLevel}}  AND s.grade_level = ?{{/gradeLevel}}
{{#homeroom}}  AND s.homeroom = ?{{/homeroom}}
{{#startDate}}  AND s.enrolled_at >= ?{{/startDate}}
{{#endDate}}  AND s.enrolled_at <= ?{{/endDate}}
ORDER BY s.last_name, s.first_name`,
			Parameters: []Parameter{
				{Name: "gradeLevel", Type: TypeString, Constraints: &Constraints{Pattern: `^\d{1,2}$`}},
				{Name: "homeroom", Type: TypeString},
				{Name: "startDate", Type: TypeDate},
				{Name: "endDate", Type: TypeDate},
			},
			AllowedRoles: []string{RoleAdmin, RoleRegistrar, RoleTeacher},
		},
		{
			ID:          "attendance-summary",
			Name:        "Attendance Summary",
			Description: "Per-student attendance counts over a date range.",
			Category:    "attendance",
			QuerySkeleton: `SELECT a.student_id, s.last_name, s.first_name, a.status, COUNT(*) AS days
FROM attendance_records a
JOIN students s ON s.id = a.student_id
WHERE 1=1
{{#startDate}}  AND a.date >= ?{{/startDate}}
{{#endDate}}  AND a.date <= ?{{/endDate}}
{{#gradeLevel}}  AND s.grade_level = ?{{/gradeLevel}}
GROUP BY a.student_id, s.last_name, s.first_name, a.status
ORDER BY s.last_name, s.first_name`,
			Parameters: []Parameter{
				{Name: "startDate", Type: TypeDate, Required: true},
				{Name: "endDate", Type: TypeDate, Required: true},
				{Name: "gradeLevel", Type: TypeString, Constraints: &Constraints{Pattern: `^\d{1,2}$`}},
			},
			AllowedRoles: []string{RoleAdmin, RoleRegistrar, RoleTeacher},
		},
		{
			ID:          "grade-distribution",
			Name:        "Grade Distribution",
			Description: "Letter grade counts per course for a term.",
			Category:    "gradebook",
			QuerySkeleton: `SELECT g.course, g.letter_grade, COUNT(*) AS entries
FROM grade_entries g
WHERE 1=1
{{#term}}  AND g.term = ?{{/term}}
{{#course}}  AND g.course = ?{{/course}}
GROUP BY g.course, g.letter_grade
ORDER BY g.course, g.letter_grade`,
			Parameters: []Parameter{
				{Name: "term", Type: TypeString, Required: true, Constraints: &Constraints{
					Enum: []any{"FALL", "SPRING", "SUMMER"},
				}},
				{Name: "course", Type: TypeString},
			},
			AllowedRoles: []string{RoleAdmin, RoleTeacher},
		},
		{
			ID:          "discipline-incidents",
			Name:        "Discipline Incidents",
			Description: "Incidents within a date range, optionally filtered by severity.",
			Category:    "discipline",
			QuerySkeleton: `SELECT d.occurred_at, d.student_id, s.last_name, s.first_name, d.severity, d.description
FROM discipline_incidents d
JOIN students s ON s.id = d.student_id
WHERE 1=1
{{#startDate}}  AND d.occurred_at >= ?{{/startDate}}
{{#endDate}}  AND d.occurred_at <= ?{{/endDate}}
{{#severity}}  AND d.severity = ?{{/severity}}
ORDER BY d.occurred_at DESC`,
			Parameters: []Parameter{
				{Name: "startDate", Type: TypeDate, Required: true},
				{Name: "endDate", Type: TypeDate, Required: true},
				{Name: "severity", Type: TypeString, Constraints: &Constraints{
					Enum: []any{"minor", "major", "severe"},
				}},
			},
			AllowedRoles: []string{RoleAdmin, RoleCounselor},
			// Discipline reporting is reviewed in shorter windows.
			MaxDateRangeDays: 180,
		},
		{
			ID:          "staff-directory",
			Name:        "Staff Directory",
			Description: "Staff members, optionally filtered by department.",
			Category:    "staff",
			QuerySkeleton: `SELECT st.last_name, st.first_name, st.department, st.title, st.email
FROM staff_members st
WHERE 1=1
{{#department}}  AND st.department = ?{{/department}}
ORDER BY st.last_name, st.first_name`,
			Parameters: []Parameter{
				{Name: "department", Type: TypeString},
			},
			AllowedRoles: []string{RoleAdmin},
		},
		{
			ID:          "enrollment-by-grade",
			Name:        "Enrollment by Grade",
			Description: "Student head count per grade level.",
			Category:    "students",
			QuerySkeleton: `SELECT s.grade_level, COUNT(*) AS enrolled
FROM students s
GROUP BY s.grade_level
ORDER BY s.grade_level`,
			AllowedRoles: []string{RoleAdmin, RoleRegistrar},
		},
	}
}

// NewBuiltinRegistry returns a registry preloaded with the stock catalog.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, t := range BuiltinTemplates() {
		r.Register(t)
	}
	return r
}
