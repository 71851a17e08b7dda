// Package annotation stores hand-adjusted chart positions per family.
//
// After a chart has been rearranged, [Capture] snapshots the node positions
// and a [Store] persists them under the family id. The next time the family
// is charted the saved positions are passed to [chart.Build], which uses
// them instead of the computed ones.
//
// Three backends implement [Store]:
//   - [FileStore]: one JSON file per family, for local use
//   - [SQLiteStore]: a single SQLite database with one row per position
//   - [MongoStore]: one document per family in a MongoDB collection
//
// All stores are safe for concurrent use.
package annotation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/config"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

// ErrNotFound is returned by Store.Load when a family has no saved positions.
var ErrNotFound = errors.New("annotations not found")

// Annotations are the saved positions of one family, keyed by person id.
type Annotations struct {
	FamilyID  string                    `json:"family_id" bson:"_id"`
	Positions map[string]chart.Position `json:"positions" bson:"positions"`
	UpdatedAt time.Time                 `json:"updated_at" bson:"updated_at"`
}

// New returns empty annotations for familyID.
func New(familyID string) *Annotations {
	return &Annotations{FamilyID: familyID, Positions: make(map[string]chart.Position)}
}

// Capture snapshots the position of every node in c.
func Capture(c *chart.Chart) *Annotations {
	a := New(c.FamilyID)
	for _, n := range c.Nodes {
		a.Positions[n.ID] = chart.Position{X: n.X, Y: n.Y}
	}
	return a
}

// Set records a position for id.
func (a *Annotations) Set(id string, x, y float64) {
	if a.Positions == nil {
		a.Positions = make(map[string]chart.Position)
	}
	a.Positions[id] = chart.Position{X: x, Y: y}
}

// Merge copies the positions of other over a.
func (a *Annotations) Merge(other *Annotations) {
	if other == nil {
		return
	}
	if a.Positions == nil {
		a.Positions = make(map[string]chart.Position, len(other.Positions))
	}
	maps.Copy(a.Positions, other.Positions)
}

// Len returns the number of saved positions.
func (a *Annotations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Positions)
}

// Store persists annotations.
type Store interface {
	// Load returns the saved annotations of familyID or ErrNotFound.
	Load(ctx context.Context, familyID string) (*Annotations, error)
	// Save replaces the saved annotations of familyID.
	Save(ctx context.Context, familyID string, a *Annotations) error
	// Delete removes the saved annotations of familyID. Deleting a family
	// with nothing saved is not an error.
	Delete(ctx context.Context, familyID string) error
	// Close releases the store's resources.
	Close() error
}

// Open returns the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Annotations) (Store, error) {
	switch cfg.Backend {
	case config.AnnotationsFile, "":
		return NewFileStore(cfg.Dir)
	case config.AnnotationsSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.AnnotationsMongo:
		return NewMongoStore(ctx, MongoOptions{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown annotations backend %q", cfg.Backend)
	}
}

// LoadOrEmpty is Load with ErrNotFound mapped to empty annotations.
func LoadOrEmpty(ctx context.Context, s Store, familyID string) (*Annotations, error) {
	a, err := s.Load(ctx, familyID)
	if errors.Is(err, ErrNotFound) {
		return New(familyID), nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func checkFamilyID(id string) error {
	if err := perrors.ValidateFamilyID(id); err != nil {
		return fmt.Errorf("annotations: %w", err)
	}
	return nil
}
