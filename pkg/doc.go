// Package pkg provides the libraries behind the pedigree layout engine.
//
// # Overview
//
// Pedigree turns a family dataset (people with mother/father references,
// one of them the proband) into a pedigree chart: every relative reachable
// from the proband gets a generation row and a horizontal slot, missing
// co-parents are filled with placeholders, and overlapping cells are
// reported. The charts are then drawn as SVG, Graphviz, PNG or PDF, or
// served over HTTP with draggable nodes whose positions are saved.
//
// # Architecture
//
// The typical data flow:
//
//	family dataset (JSON)
//	         ↓
//	    [family] package (people, relationship index, placeholders)
//	         ↓
//	    [pedigree] package (tree builder, coordinate assigner, validator)
//	         ↓
//	    [chart] package (display coordinates + saved annotations)
//	         ↓
//	    [render/svg], [render/nodelink] (SVG, DOT, Graphviz, PNG, PDF)
//
// # Quick Start
//
//	ds, _ := family.ImportJSON("processed/10001.json")
//
//	// 1. Lay out the tree
//	res, _ := pedigree.Run(ds, pedigree.Options{})
//
//	// 2. Project to pixels
//	c := chart.Build(ds, res, chart.DefaultGeometry(), nil)
//
//	// 3. Draw
//	svg := svg.Render(c, svg.WithLabels())
//
// # Main Packages
//
// ## Domain
//
// [family] - People, the dataset they live in, and the relationship index
// (children, partners, placeholder co-parents).
//
// [pedigree] - One layout pass: tree construction from the proband, slot
// assignment, ancestor branch separation, and validation (unplaced people,
// overlapping cells, depth-capped branches).
//
// [chart] - The display model: pixel positions, couples and parent links.
//
// ## Visualization
//
// [render/svg] - Standard pedigree symbols drawn directly, with optional
// lineage highlighting and dragging.
//
// [render/nodelink] - The chart as Graphviz source, laid out with neato at
// pinned positions.
//
// [render] - Output formats and SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Load → layout → chart → render with caching, shared by the
// CLI and the HTTP service.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [annotation] - Saved node positions in files, SQLite or MongoDB.
//
// [server] - The HTTP service.
//
// [config] - TOML/YAML configuration with environment overrides.
//
// [observability] - Pipeline, cache and HTTP hooks, with a Prometheus
// implementation in observability/prom.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./...                               # All tests
//	go test ./pkg/pedigree/...                  # Specific package
//	go test -run Example ./...                  # Examples only
//	PEDIGREE_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//	PEDIGREE_TEST_MONGO=mongodb://localhost go test ./pkg/annotation/...
//
// [family]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/family
// [pedigree]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pedigree
// [chart]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/chart
// [render]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/cache
// [annotation]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/annotation
// [server]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/pedigree/pkg/errors
package pkg
