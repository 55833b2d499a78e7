package service

import (
	"context"
	"errors"
	"fmt"

	"campus_srv/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordsService is the thin data-access layer over the school tables.
// Plain CRUD, no business rules.
type RecordsService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRecordsService wires the service.
func NewRecordsService(db *gorm.DB, logger *logrus.Logger) *RecordsService {
	return &RecordsService{db: db, logger: logger}
}

// ListStudentsParams filters the student listing.
type ListStudentsParams struct {
	GradeLevel string
	Status     string
	Page       int
	PageSize   int
}

// ListStudents returns a page of students plus the unpaged total.
func (s *RecordsService) ListStudents(ctx context.Context, params ListStudentsParams) ([]models.Student, int64, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 || params.PageSize > 200 {
		params.PageSize = 50
	}

	query := s.db.WithContext(ctx).Model(&models.Student{})
	if params.GradeLevel != "" {
		query = query.Where("grade_level = ?", params.GradeLevel)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	var students []models.Student
	err := query.Order("last_name, first_name").
		Offset((params.Page - 1) * params.PageSize).
		Limit(params.PageSize).
		Find(&students).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	return students, total, nil
}

// CreateStudent inserts one student record.
func (s *RecordsService) CreateStudent(ctx context.Context, student *models.Student) error {
	if student.FirstName == "" || student.LastName == "" {
		return fmt.Errorf("student name is required")
	}
	if student.Status == "" {
		student.Status = "active"
	}
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		s.logger.WithError(err).Error("failed to create student")
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetStudent loads one student by id.
func (s *RecordsService) GetStudent(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).First(&student, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %d not found", id)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

// ListAttendance returns attendance marks for a student, newest first.
func (s *RecordsService) ListAttendance(ctx context.Context, studentID uint, limit int) ([]models.AttendanceRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var records []models.AttendanceRecord
	query := s.db.WithContext(ctx).Model(&models.AttendanceRecord{})
	if studentID != 0 {
		query = query.Where("student_id = ?", studentID)
	}
	err := query.Order("date DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
