package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"campus_srv/internal/config"
	"campus_srv/internal/models"
	"campus_srv/internal/render"
	"campus_srv/internal/report"
	"campus_srv/internal/service"
	"campus_srv/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// roleHeader carries the caller's role. Authentication itself happens
// upstream; by the time a request arrives here the role is a resolved,
// opaque token.
const roleHeader = "X-Caller-Role"

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	engine  *report.Engine
	records *service.RecordsService
	audit   *service.AuditService
	archive storage.Storage
	cfg     config.Config
	logger  *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.Config,
	engine *report.Engine,
	records *service.RecordsService,
	audit *service.AuditService,
	archive storage.Storage,
	logger *logrus.Logger,
) *Server {
	e := echo.New()
	e.Debug = cfg.Server.Debug
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	if cfg.Server.Debug {
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Format: "${time_rfc3339} ${method} ${uri} ${status} ${latency_human} ${error}\n",
		}))
	}

	server := &Server{
		echo:    e,
		engine:  engine,
		records: records,
		audit:   audit,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.WithField("address", address).Info("Starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// setupRoutes configures the server routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")
	{
		reports := api.Group("/reports")
		{
			reports.GET("", s.listReports)
			reports.GET("/categories", s.listCategories)
			reports.GET("/executions", s.listExecutions)
			reports.POST("/:id", s.executeReport)
			reports.GET("/:id/export", s.exportReport)
		}

		api.GET("/exports", s.listExports)

		api.GET("/students", s.listStudents)
		api.POST("/students", s.createStudent)
		api.GET("/attendance", s.listAttendance)
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "campus-srv",
	})
}

// templateSummary is the catalog listing DTO.
type templateSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Parameters  []parameterInfo `json:"parameters"`
}

type parameterInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// listReports returns the templates visible to the caller's role.
func (s *Server) listReports(c echo.Context) error {
	role := c.Request().Header.Get(roleHeader)
	templates := s.engine.Registry().ListForRole(role)

	out := make([]templateSummary, 0, len(templates))
	for _, t := range templates {
		params := make([]parameterInfo, 0, len(t.Parameters))
		for _, p := range t.Parameters {
			params = append(params, parameterInfo{Name: p.Name, Type: string(p.Type), Required: p.Required})
		}
		out = append(out, templateSummary{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			Parameters:  params,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"reports": out,
		"count":   len(out),
	})
}

// listCategories returns the distinct catalog categories.
func (s *Server) listCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": s.engine.Registry().Categories(),
	})
}

// executeReport runs a template in materialized mode and returns the full
// result envelope as JSON.
func (s *Server) executeReport(c echo.Context) error {
	var body struct {
		Parameters map[string]interface{} `json:"parameters"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	req := report.Request{
		TemplateID: c.Param("id"),
		Params:     body.Parameters,
		Role:       c.Request().Header.Get(roleHeader),
		Mode:       report.ModeMaterialized,
	}

	started := time.Now()
	res, err := s.engine.ExecuteReport(c.Request().Context(), req)
	s.recordAudit(c, req, started, res, err)
	if err != nil {
		return s.reportError(c, err)
	}

	rows := res.Output.(report.Materialized).Rows
	return c.JSON(http.StatusOK, map[string]interface{}{
		"columns":  res.Columns,
		"rows":     rows,
		"metadata": res.Metadata,
	})
}

// exportReport renders a template to csv, xlsx or pdf. CSV is produced from
// a streamed execution and written record by record; the other formats are
// buffered. With archive=true a copy is saved to the export archive.
func (s *Server) exportReport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	archive, _ := strconv.ParseBool(c.QueryParam("archive"))

	params := make(map[string]interface{})
	for name, values := range c.QueryParams() {
		if name == "format" || name == "archive" || len(values) == 0 {
			continue
		}
		params[name] = values[0]
	}

	mode := report.ModeMaterialized
	if format == "csv" && !archive {
		mode = report.ModeStreamed
	}

	req := report.Request{
		TemplateID: c.Param("id"),
		Params:     params,
		Role:       c.Request().Header.Get(roleHeader),
		Mode:       mode,
	}

	started := time.Now()
	res, err := s.engine.ExecuteReport(c.Request().Context(), req)
	s.recordAudit(c, req, started, res, err)
	if err != nil {
		return s.reportError(c, err)
	}

	filename := fmt.Sprintf("%s_%s.%s", req.TemplateID, time.Now().Format("20060102_150405"), format)

	switch format {
	case "csv":
		if mode == report.ModeStreamed {
			c.Response().Header().Set(echo.HeaderContentType, "text/csv")
			c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
			c.Response().WriteHeader(http.StatusOK)
			return render.WriteCSV(&flushWriter{resp: c.Response()}, res)
		}
		var buf bytes.Buffer
		if err := render.WriteCSV(&buf, res); err != nil {
			return s.reportError(c, err)
		}
		s.archiveExport(c, req.TemplateID, filename, buf.Bytes())
		return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		buf, err := render.WriteXLSX(res)
		if err != nil {
			return s.reportError(c, err)
		}
		if archive {
			s.archiveExport(c, req.TemplateID, filename, buf.Bytes())
		}
		return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "pdf":
		buf, err := render.WritePDF(res, s.cfg.Reporting.PDFRowLimit)
		if err != nil {
			return s.reportError(c, err)
		}
		if archive {
			s.archiveExport(c, req.TemplateID, filename, buf.Bytes())
		}
		return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unsupported export format: %s", format),
		})
	}
}

// archiveExport saves a copy of an export; failures are logged, not fatal.
func (s *Server) archiveExport(c echo.Context, templateID, filename string, data []byte) {
	key := fmt.Sprintf("exports/%s/%s", templateID, filename)
	if err := s.archive.Save(c.Request().Context(), key, bytes.NewReader(data)); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("Failed to archive export")
	}
}

// listExports returns the archived export files.
func (s *Server) listExports(c echo.Context) error {
	files, err := s.archive.List(c.Request().Context(), "exports/")
	if err != nil {
		s.logger.WithError(err).Error("Failed to list exports")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to list exports",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"exports": files,
		"count":   len(files),
	})
}

// listExecutions returns the recent report execution audit rows.
func (s *Server) listExecutions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	rows, err := s.audit.RecentExecutions(c.Request().Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list report executions")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to list report executions",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"executions": rows,
		"count":      len(rows),
	})
}

// listStudents handles the student listing
func (s *Server) listStudents(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	students, total, err := s.records.ListStudents(c.Request().Context(), service.ListStudentsParams{
		GradeLevel: c.QueryParam("grade_level"),
		Status:     c.QueryParam("status"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to list students")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to list students",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"students": students,
		"total":    total,
	})
}

// createStudent handles student creation
func (s *Server) createStudent(c echo.Context) error {
	var student models.Student
	if err := c.Bind(&student); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	if err := s.records.CreateStudent(c.Request().Context(), &student); err != nil {
		s.logger.WithError(err).Error("Failed to create student")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create student",
		})
	}

	return c.JSON(http.StatusCreated, student)
}

// listAttendance handles the attendance listing
func (s *Server) listAttendance(c echo.Context) error {
	studentID, _ := strconv.ParseUint(c.QueryParam("student_id"), 10, 32)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, err := s.records.ListAttendance(c.Request().Context(), uint(studentID), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list attendance")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to list attendance",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// recordAudit writes the execution audit row for both successes and refusals.
func (s *Server) recordAudit(c echo.Context, req report.Request, started time.Time, res *report.Result, err error) {
	var rowCount *int64
	if res != nil {
		rowCount = res.Metadata.RowCount
	}
	s.audit.RecordExecution(c.Request().Context(), req, started, rowCount, err)
}

// reportError maps the engine's error taxonomy onto HTTP statuses. Caller
// errors return details; execution failures return a generic message so
// store internals never leak to untrusted callers.
func (s *Server) reportError(c echo.Context, err error) error {
	switch report.KindOf(err) {
	case report.KindNotFound:
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "Report template not found",
		})
	case report.KindUnauthorized:
		return c.JSON(http.StatusForbidden, map[string]interface{}{
			"error": "Role is not permitted to execute this report",
		})
	case report.KindInvalidParameters:
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":      "Invalid report parameters",
			"violations": report.ViolationsOf(err),
		})
	default:
		s.logger.WithError(err).Error("Report execution failed")
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Report execution failed",
		})
	}
}

// flushWriter flushes the HTTP response after every write so a streamed CSV
// reaches the client row by row and a slow consumer slows the producer.
type flushWriter struct {
	resp *echo.Response
}

func (w *flushWriter) Write(p []byte) (int, error) {
	n, err := w.resp.Write(p)
	if err != nil {
		return n, err
	}
	w.resp.Flush()
	return n, nil
}

var _ io.Writer = (*flushWriter)(nil)
