package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedigree/pkg/annotation"
	"github.com/matzehuels/pedigree/pkg/cache"
	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/family"
	"github.com/matzehuels/pedigree/pkg/observability"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options; every layout pass works on its own copy of the
// dataset.
type Runner struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Annotations annotation.Store // nil disables saved positions
	Logger      *log.Logger
	TTL         time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store annotation.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Annotations: store,
		Logger:      logger,
		TTL:         cache.DefaultTTL,
	}
}

// Execute runs the complete load → layout → chart → render pipeline.
// In strict mode a layout defect stops the run after the layout stage;
// the partial result is returned with the error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("invalid options: path is required")
	}
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	start := time.Now()
	ds, err := r.Load(ctx, opts.Path)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = time.Since(start)
	result.Stats.People = ds.Len()

	// Stage 2: Layout
	start = time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	if l != nil {
		result.Layout = l
		result.Stats.LayoutTime = time.Since(start)
		result.Stats.Members = len(l.Result.Tree)
		result.Stats.Placeholders = len(l.Result.Placeholders)
		result.CacheInfo.LayoutHit = layoutHit
	}
	if err != nil {
		return result, fmt.Errorf("layout: %w", err)
	}

	opts.Logger.Info("computed layout",
		"family", l.FamilyID(),
		"members", len(l.Result.Tree),
		"unplaced", len(l.Result.Unplaced),
		"overlaps", len(l.Result.Overlaps),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Chart
	start = time.Now()
	c, chartHit, err := r.ChartWithCacheInfo(ctx, l, opts)
	if err != nil {
		return result, fmt.Errorf("chart: %w", err)
	}
	result.Chart = c
	result.Stats.ChartTime = time.Since(start)
	result.CacheInfo.ChartHit = chartHit

	// Stage 4: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, opts)
	if err != nil {
		return result, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset at path and reports it to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, path string) (*family.Dataset, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	ds, err := LoadFile(path)
	people := 0
	if ds != nil {
		people = ds.Len()
	}
	hooks.OnLoadComplete(ctx, path, people, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded dataset", "path", path, "people", people)
	return ds, nil
}

// LayoutWithCacheInfo lays out ds with caching and returns cache hit info.
// The cache key is the content hash of ds (layout fields cleared) and the
// layout options.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ds *family.Dataset, opts Options) (*Layout, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	input := ds.Clone()
	input.ClearLayout()
	data, err := family.MarshalJSON(input)
	if err != nil {
		return nil, false, fmt.Errorf("hash dataset: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, ds.FamilyID(), ds.Len())
	start := time.Now()

	l, hit := r.cachedLayout(ctx, key, opts)
	if !hit {
		l, err = GenerateLayout(ds, opts)
		if l == nil {
			hooks.OnLayoutComplete(ctx, ds.FamilyID(), observability.LayoutStats{}, time.Since(start), err)
			return nil, false, err
		}
		if enc, encErr := MarshalLayout(l); encErr == nil {
			r.set(ctx, "layout", key, enc)
		}
	} else if opts.Strict {
		err = pedigree.StrictError(l.Result, opts.MaxDepth)
	}

	hooks.OnLayoutComplete(ctx, ds.FamilyID(), layoutStats(l), time.Since(start), err)
	return l, hit, err
}

func (r *Runner) cachedLayout(ctx context.Context, key string, opts Options) (*Layout, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, ok := r.get(ctx, "layout", key)
	if !ok {
		return nil, false
	}
	l, err := UnmarshalLayout(data)
	if err != nil {
		// fall through to recompute
		return nil, false
	}
	return l, true
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, ds *family.Dataset, opts Options) (*Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	return l, err
}

// ChartWithCacheInfo projects l with the family's saved positions applied
// and returns cache hit info.
func (r *Runner) ChartWithCacheInfo(ctx context.Context, l *Layout, opts Options) (*chart.Chart, bool, error) {
	opts.SetDefaults()

	var positions map[string]chart.Position
	annHash := ""
	if r.Annotations != nil && !opts.IgnoreAnnotations {
		ann, err := annotation.LoadOrEmpty(ctx, r.Annotations, l.FamilyID())
		if err != nil {
			return nil, false, fmt.Errorf("load annotations: %w", err)
		}
		if ann.Len() > 0 {
			positions = ann.Positions
			data, _ := json.Marshal(positions)
			annHash = cache.Hash(data)
		}
	}

	key := r.Keyer.ChartKey(l.Hash, opts.ChartKeyOpts(annHash))
	if !opts.Refresh {
		if data, ok := r.get(ctx, "chart", key); ok {
			var c chart.Chart
			if err := json.Unmarshal(data, &c); err == nil {
				return &c, true, nil
			}
		}
	}

	c := chart.Build(l.Dataset, l.Result, opts.Geometry, positions)
	if data, err := json.Marshal(c); err == nil {
		r.set(ctx, "chart", key, data)
	}
	return c, false, nil
}

// Chart is a convenience wrapper that discards the cache hit info.
func (r *Runner) Chart(ctx context.Context, l *Layout, opts Options) (*chart.Chart, error) {
	c, _, err := r.ChartWithCacheInfo(ctx, l, opts)
	return c, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. The hit flag is set only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	chartData, err := json.Marshal(c)
	if err != nil {
		return nil, false, fmt.Errorf("serialize chart for cache key: %w", err)
	}
	chartHash := cache.Hash(chartData)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, ok := r.get(ctx, "artifact", key); ok {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := RenderChart(ctx, c, renderOpts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(chartHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, "artifact", key, data)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c *chart.Chart, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, opts)
	return artifacts, err
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Annotations != nil {
		errs = append(errs, r.Annotations.Close())
	}
	return errors.Join(errs...)
}

func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte) {
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func layoutStats(l *Layout) observability.LayoutStats {
	if l == nil {
		return observability.LayoutStats{}
	}
	return observability.LayoutStats{
		Members:      len(l.Result.Tree),
		Placeholders: len(l.Result.Placeholders),
		Unplaced:     len(l.Result.Unplaced),
		Overlaps:     len(l.Result.Overlaps),
	}
}
