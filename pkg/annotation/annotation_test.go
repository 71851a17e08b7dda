package annotation

import (
	"context"
	"errors"
	"testing"

	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/config"
)

func TestCapture(t *testing.T) {
	c := &chart.Chart{
		FamilyID: "10001",
		Nodes: []chart.Node{
			{ID: "A", X: 10, Y: 20},
			{ID: "B", X: 30, Y: 40},
		},
	}
	a := Capture(c)
	if a.FamilyID != "10001" || a.Len() != 2 {
		t.Fatalf("Capture() = %+v", a)
	}
	if got := a.Positions["B"]; got != (chart.Position{X: 30, Y: 40}) {
		t.Errorf("Positions[B] = %v", got)
	}
}

func TestSetMerge(t *testing.T) {
	var a Annotations
	a.Set("A", 1, 2)
	b := New("f")
	b.Set("A", 5, 5)
	b.Set("B", 3, 4)
	a.Merge(b)
	a.Merge(nil)

	if a.Len() != 2 || a.Positions["A"] != (chart.Position{X: 5, Y: 5}) {
		t.Errorf("after Merge = %+v", a.Positions)
	}
	var nilAnn *Annotations
	if nilAnn.Len() != 0 {
		t.Error("nil Len() != 0")
	}
}

func TestLoadOrEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, err := LoadOrEmpty(context.Background(), s, "10001")
	if err != nil {
		t.Fatalf("LoadOrEmpty() error: %v", err)
	}
	if a.FamilyID != "10001" || a.Len() != 0 {
		t.Errorf("LoadOrEmpty() = %+v, want empty", a)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.Annotations{Backend: config.AnnotationsFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", s)
	}
	s.Close()

	if _, err := Open(ctx, config.Annotations{Backend: "etcd"}); err == nil {
		t.Error("Open(etcd) should fail")
	}
}

// storeContract exercises the behavior every Store shares.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Load(ctx, "10001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(empty) error = %v, want ErrNotFound", err)
	}

	a := New("10001")
	a.Set("10001-01-P", 140, 200)
	a.Set("M", 100.5, 100)
	if err := s.Save(ctx, "10001", a); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load(ctx, "10001")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Len() != 2 || got.Positions["M"] != (chart.Position{X: 100.5, Y: 100}) {
		t.Errorf("Load() = %+v", got.Positions)
	}

	b := New("10001")
	b.Set("F", 1, 1)
	if err := s.Save(ctx, "10001", b); err != nil {
		t.Fatalf("Save(replace) error: %v", err)
	}
	got, _ = s.Load(ctx, "10001")
	if got.Len() != 1 {
		t.Errorf("Save should replace, got %+v", got.Positions)
	}

	if err := s.Delete(ctx, "10001"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Load(ctx, "10001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "10001"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}

	if err := s.Save(ctx, "../etc", a); err == nil {
		t.Error("Save(../etc) should reject the family id")
	}
}
