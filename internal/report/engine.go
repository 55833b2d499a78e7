package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Request is one report invocation. Params keys need not cover every
// declared parameter; Role is an opaque membership token checked against
// the template's role gate.
type Request struct {
	TemplateID string
	Params     map[string]any
	Role       string
	Mode       OutputMode
}

// Engine orchestrates one execution: resolve the template, authorize the
// role, validate and default the parameters, assemble the query, execute.
// Each call runs independently; the registry is the only shared state.
type Engine struct {
	registry *Registry
	exec     executor
	logger   *logrus.Logger
}

// NewEngine builds the facade over an explicit registry and data store.
func NewEngine(registry *Registry, store DataStore, logger *logrus.Logger) *Engine {
	return &Engine{
		registry: registry,
		exec:     executor{store: store, logger: logger},
		logger:   logger,
	}
}

// Registry exposes the catalog for listing endpoints.
func (e *Engine) Registry() *Registry { return e.registry }

// ExecuteReport runs the full pipeline. Every failure is terminal for the
// invocation; nothing is retried here and no partial result is returned.
//
// Authorization is checked strictly after existence, so a missing template
// reports not-found rather than leaking through a permission error, and a
// forbidden template reveals nothing past the role gate.
func (e *Engine) ExecuteReport(ctx context.Context, req Request) (*Result, error) {
	logger := e.logger.WithFields(logrus.Fields{
		"template_id": req.TemplateID,
		"role":        req.Role,
		"mode":        req.Mode,
	})

	tpl, ok := e.registry.Get(req.TemplateID)
	if !ok {
		return nil, NewError(KindNotFound, fmt.Sprintf("template %q not found", req.TemplateID), nil)
	}

	if !tpl.AllowsRole(req.Role) {
		logger.Warn("report execution denied")
		return nil, NewError(KindUnauthorized, fmt.Sprintf("role %q is not permitted to execute %q", req.Role, tpl.ID), nil)
	}

	if violations := Validate(tpl, req.Params); len(violations) > 0 {
		logger.WithField("violations", len(violations)).Info("report parameters rejected")
		return nil, newValidationError(violations)
	}

	params := applyDefaults(tpl, req.Params)
	query, args := Assemble(tpl.QuerySkeleton, params)

	mode := req.Mode
	if mode == "" {
		mode = ModeMaterialized
	}

	start := time.Now()
	columns, output, rowCount, err := e.exec.run(ctx, query, args, mode)
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{"duration": time.Since(start)}
	if rowCount != nil {
		fields["rows"] = *rowCount
	}
	logger.WithFields(fields).Info("report executed")

	return &Result{
		Columns: columns,
		Output:  output,
		Metadata: Metadata{
			ExecutedAt:   time.Now().UTC(),
			RowCount:     rowCount,
			TemplateName: tpl.Name,
		},
	}, nil
}

// applyDefaults fills declared defaults for absent or empty optional
// parameters, leaving the caller's map untouched.
func applyDefaults(t *Template, supplied map[string]any) map[string]any {
	params := make(map[string]any, len(supplied))
	for k, v := range supplied {
		params[k] = v
	}
	for _, p := range t.Parameters {
		if p.Default == nil {
			continue
		}
		if v, ok := params[p.Name]; !ok || isEmpty(v) {
			params[p.Name] = p.Default
		}
	}
	return params
}
