package models

import (
	"time"
)

// Student represents one enrolled student record.
type Student struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FirstName  string    `json:"first_name" gorm:"size:100;not null"`
	LastName   string    `json:"last_name" gorm:"size:100;not null;index"`
	GradeLevel string    `json:"grade_level" gorm:"size:2;not null;index"`
	Homeroom   string    `json:"homeroom" gorm:"size:20"`
	Status     string    `json:"status" gorm:"size:20;not null;default:'active'"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// TableName specifies the table name for the Student model
func (Student) TableName() string {
	return "students"
}

// StaffMember represents one staff record.
type StaffMember struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FirstName  string    `json:"first_name" gorm:"size:100;not null"`
	LastName   string    `json:"last_name" gorm:"size:100;not null;index"`
	Department string    `json:"department" gorm:"size:100;index"`
	Title      string    `json:"title" gorm:"size:100"`
	Email      string    `json:"email" gorm:"size:255;uniqueIndex"`
}

func (StaffMember) TableName() string {
	return "staff_members"
}

// AttendanceRecord is one student-day attendance mark.
type AttendanceRecord struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	StudentID uint      `json:"student_id" gorm:"not null;index"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"size:20;not null"` // present, absent, tardy, excused
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// DisciplineIncident records one disciplinary event.
type DisciplineIncident struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	CreatedAt   time.Time `json:"created_at"`
	StudentID   uint      `json:"student_id" gorm:"not null;index"`
	OccurredAt  time.Time `json:"occurred_at" gorm:"not null;index"`
	Severity    string    `json:"severity" gorm:"size:20;not null"` // minor, major, severe
	Description string    `json:"description" gorm:"size:1000"`
}

func (DisciplineIncident) TableName() string {
	return "discipline_incidents"
}

// GradeEntry is one course grade for one student and term.
type GradeEntry struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"created_at"`
	StudentID    uint      `json:"student_id" gorm:"not null;index"`
	Course       string    `json:"course" gorm:"size:100;not null;index"`
	Term         string    `json:"term" gorm:"size:20;not null;index"`
	LetterGrade  string    `json:"letter_grade" gorm:"size:2;not null"`
	NumericGrade float64   `json:"numeric_grade"`
}

func (GradeEntry) TableName() string {
	return "grade_entries"
}

// ReportExecution is the audit trail for report runs: who ran which
// template with which parameters, and how it went.
type ReportExecution struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CreatedAt  time.Time `json:"created_at"`
	TemplateID string    `json:"template_id" gorm:"size:100;not null;index"`
	Role       string    `json:"role" gorm:"size:50;not null"`
	Parameters JSON      `json:"parameters,omitempty" gorm:"type:jsonb"`
	Mode       string    `json:"mode" gorm:"size:20;not null"`
	Status     string    `json:"status" gorm:"size:20;not null"` // completed, failed, rejected
	RowCount   *int64    `json:"row_count,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Detail     string    `json:"detail,omitempty" gorm:"size:1000"`
}

func (ReportExecution) TableName() string {
	return "report_executions"
}

// All lists every model for migration.
func All() []any {
	return []any{
		&Student{},
		&StaffMember{},
		&AttendanceRecord{},
		&DisciplineIncident{},
		&GradeEntry{},
		&ReportExecution{},
	}
}
