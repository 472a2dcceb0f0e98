// Package converter ties the pipeline together: hybrid parse, rule-driven
// transformation, serialization. The subpackages are usable on their own;
// this facade is the convenience path the command line uses.
package converter

import (
	"fmt"
	"log/slog"

	"xmc-go/packages/converter/mappings"
	"xmc-go/packages/converter/rules"
	"xmc-go/packages/converter/writer"
	"xmc-go/packages/converter/xaml"
	"xmc-go/packages/converter/xaml/semantic"
)

// Converter runs the whole conversion pipeline over single documents
type Converter struct {
	parser     *xaml.HybridParser
	repository mappings.Repository
	engine     *rules.Engine
	writerOpts writer.Options
	logger     *slog.Logger
}

// Config configures a Converter. Zero values select the built-in mapping
// table, the default registry and default writer options.
type Config struct {
	Repository mappings.Repository
	Registry   *semantic.Registry
	Writer     writer.Options
	Logger     *slog.Logger
}

// New creates a Converter
func New(cfg Config) *Converter {
	if cfg.Repository == nil {
		cfg.Repository = mappings.WpfToAvalonia()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Writer == (writer.Options{}) {
		cfg.Writer = writer.DefaultOptions()
	}
	return &Converter{
		parser:     xaml.NewHybridParser(cfg.Registry, cfg.Logger),
		repository: cfg.Repository,
		engine:     rules.NewDefaultEngine(cfg.Repository),
		writerOpts: cfg.Writer,
		logger:     cfg.Logger,
	}
}

// Result is the outcome of one conversion
type Result struct {
	Output   string
	Document *xaml.Document
	Trace    []rules.TransformationRecord
}

// Convert parses, transforms and serializes one document. A structural
// parse failure is fatal; everything else degrades with diagnostics on the
// returned document.
func (c *Converter) Convert(source, url string) (*Result, error) {
	parsed := c.parser.Parse(source, url)
	if parsed.Document == nil {
		if errs := parsed.Diagnostics.Errors(); len(errs) > 0 {
			first := errs[0]
			return nil, fmt.Errorf("parse %s:%d:%d: %s", url, first.Line, first.Column, first.Message)
		}
		return nil, fmt.Errorf("parse %s: structural parse failed", url)
	}
	doc := parsed.Document

	ctx := rules.NewContext(doc, c.repository)
	c.engine.Transform(doc, ctx)

	output, err := writer.NewXamlWriter(c.writerOpts).Serialize(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", url, err)
	}
	return &Result{Output: output, Document: doc, Trace: ctx.Trace()}, nil
}

// Parse runs the hybrid parse only, without transformation
func (c *Converter) Parse(source, url string) *xaml.ParseResult {
	return c.parser.Parse(source, url)
}
