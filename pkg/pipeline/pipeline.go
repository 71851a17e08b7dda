// Package pipeline provides the load → layout → chart → render pipeline
// shared by the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: read a family dataset from JSON
//  2. Layout: run a pedigree layout pass (cached by dataset content)
//  3. Chart: project the layout to display coordinates, applying saved
//     annotation positions
//  4. Render: produce artifacts (JSON, DOT, SVG, PNG, PDF)
//
// Each stage can be run on its own or as part of [Runner.Execute].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "processed/10001.json",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ds, err := runner.Load(ctx, "processed/10001.json")
//	l, err := runner.Layout(ctx, ds, opts)
//	c, err := runner.Chart(ctx, l, opts)
//	artifacts, err := runner.Render(ctx, c, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedigree/pkg/cache"
	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/pedigree"
	"github.com/matzehuels/pedigree/pkg/render"
)

// DefaultFormats are rendered when Options.Formats is empty.
var DefaultFormats = []string{string(render.FormatSVG)}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if _, err := render.ParseFormat(format); err != nil {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, graphviz, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for one pipeline run.
type Options struct {
	// Load options
	Path string `json:"path,omitempty"`

	// Layout options
	MaxDepth       int  `json:"max_depth,omitempty"`
	Strict         bool `json:"strict,omitempty"`
	SkipSeparation bool `json:"skip_separation,omitempty"`
	Refresh        bool `json:"refresh,omitempty"` // bypass cached layouts and artifacts

	// Chart options
	Geometry          chart.Geometry `json:"geometry"`
	IgnoreAnnotations bool           `json:"ignore_annotations,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	DragURL     string   `json:"drag_url,omitempty"`
	Scale       float64  `json:"scale,omitempty"` // PNG scale factor

	Logger *log.Logger `json:"-"`
}

// FromConfig returns options seeded from cfg.
func FromConfig(cfg config.Config) Options {
	return Options{
		MaxDepth:       cfg.Layout.MaxDepth,
		Strict:         cfg.Layout.Strict,
		SkipSeparation: cfg.Layout.SkipSeparation,
		Geometry: chart.Geometry{
			Margin:   cfg.Chart.Margin,
			HSpacing: cfg.Chart.HSpacing,
			VSpacing: cfg.Chart.VSpacing,
			Size:     cfg.Chart.Size,
			VPadding: cfg.Chart.VPadding,
		},
	}
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = pedigree.DefaultMaxDepth
	}
	if o.Geometry == (chart.Geometry{}) {
		o.Geometry = chart.DefaultGeometry()
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the render formats.
func (o *Options) Validate() error {
	o.SetDefaults()
	return ValidateFormats(o.Formats)
}

func (o *Options) pedigreeOptions() pedigree.Options {
	return pedigree.Options{
		MaxDepth:       o.MaxDepth,
		SkipSeparation: o.SkipSeparation,
		Logger:         o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for a layout pass. Strict mode
// is not part of the key; it only changes how a cached result is reported.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{MaxDepth: o.MaxDepth, SkipSeparation: o.SkipSeparation}
}

// ChartKeyOpts returns cache key options for a chart.
func (o *Options) ChartKeyOpts(annotationsHash string) cache.ChartKeyOpts {
	return cache.ChartKeyOpts{
		Margin:          o.Geometry.Margin,
		HSpacing:        o.Geometry.HSpacing,
		VSpacing:        o.Geometry.VSpacing,
		Size:            o.Geometry.Size,
		AnnotationsHash: annotationsHash,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Labels:      o.Labels,
		Interactive: o.Interactive,
		DragURL:     o.DragURL,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Layout    *Layout
	Chart     *chart.Chart
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	People       int
	Members      int
	Placeholders int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	ChartTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	ChartHit  bool
	RenderHit bool // all artifacts came from cache
}
