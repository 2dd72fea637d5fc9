// Package pipeline wires the synthesis stages together: derive an entity
// catalog from the input, materialize the document, validate it against the
// schema contract, repair once if validation fails, and emit the result.
package pipeline

import (
	"github.com/hashicorp/go-hclog"

	"github.com/geoffwhittington/devici-mcp/internal/catalog"
	"github.com/geoffwhittington/devici-mcp/internal/emitter"
	"github.com/geoffwhittington/devici-mcp/internal/otm"
	"github.com/geoffwhittington/devici-mcp/internal/repair"
	"github.com/geoffwhittington/devici-mcp/internal/schema"
)

// Pipeline runs the document synthesis flow for one input.
type Pipeline struct {
	logger    hclog.Logger
	validator *schema.Validator
}

// New returns a pipeline bound to a validator.
func New(logger hclog.Logger, validator *schema.Validator) *Pipeline {
	return &Pipeline{logger: logger, validator: validator}
}

// Options control one pipeline run.
type Options struct {
	// Input feeds the catalog deriver.
	Input catalog.Input
	// OutputPath, when set, receives the serialized document.
	OutputPath string
}

// Result carries the synthesized document and its report. OutputFile names
// the file the document was written to, when an output path was given.
type Result struct {
	Document   *otm.Document
	Report     emitter.Report
	OutputFile string
}

// Run synthesizes a document from the input. A validation failure triggers
// exactly one repair pass followed by revalidation; a document that still
// fails is reported with its remaining violations rather than rejected. The
// only hard failure is an output write error.
func (p *Pipeline) Run(opts Options) (*Result, error) {
	cat := catalog.Derive(opts.Input)
	doc, warnings := otm.Build(cat)
	p.logger.Debug("document materialized",
		"project", doc.Project.Name,
		"components", len(doc.Components),
		"threats", len(doc.Threats),
	)

	result := p.validator.Validate(doc)
	var fixes []string
	if !result.Valid {
		p.logger.Info("schema validation failed, repairing", "violations", len(result.Violations))
		fixes = repair.Apply(doc)
		result = p.validator.Validate(doc)
		if !result.Valid {
			p.logger.Warn("document is still invalid after repair", "violations", len(result.Violations))
		}
	}
	if result.SchemaUnavailable && p.validator.Warning() != "" {
		warnings = append(warnings, p.validator.Warning())
	}

	run := &Result{
		Document: doc,
		Report:   emitter.NewReport(doc, result, fixes, warnings),
	}

	if opts.OutputPath != "" {
		if err := emitter.WriteDocument(doc, opts.OutputPath); err != nil {
			return nil, err
		}
		run.OutputFile = opts.OutputPath
		p.logger.Info("OTM document written", "path", opts.OutputPath)
	}
	return run, nil
}
