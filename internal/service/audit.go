package service

import (
	"context"
	"fmt"
	"time"

	"campus_srv/internal/models"
	"campus_srv/internal/report"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService records report executions. Failures to write the audit row
// are logged but never fail the report itself.
type AuditService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewAuditService wires the service.
func NewAuditService(db *gorm.DB, logger *logrus.Logger) *AuditService {
	return &AuditService{db: db, logger: logger}
}

// RecordExecution persists one audit row for a finished (or refused) run.
func (s *AuditService) RecordExecution(ctx context.Context, req report.Request, started time.Time, rowCount *int64, execErr error) {
	status := "completed"
	detail := ""
	if execErr != nil {
		detail = execErr.Error()
		if report.KindOf(execErr) == report.KindExecutionFailure {
			status = "failed"
		} else {
			status = "rejected"
		}
	}

	row := models.ReportExecution{
		TemplateID: req.TemplateID,
		Role:       req.Role,
		Parameters: models.JSON(req.Params),
		Mode:       string(req.Mode),
		Status:     status,
		RowCount:   rowCount,
		DurationMS: time.Since(started).Milliseconds(),
		Detail:     detail,
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		s.logger.WithError(err).WithField("template_id", req.TemplateID).
			Warn("failed to write report execution audit row")
	}
}

// RecentExecutions lists the latest audit rows.
func (s *AuditService) RecentExecutions(ctx context.Context, limit int) ([]models.ReportExecution, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var rows []models.ReportExecution
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list report executions: %w", err)
	}
	return rows, nil
}
