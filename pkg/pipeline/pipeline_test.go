package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/pedigree/pkg/annotation"
	"github.com/matzehuels/pedigree/pkg/cache"
	perrors "github.com/matzehuels/pedigree/pkg/errors"
)

const trioJSON = `{
  "proband": "10001-01-P",
  "people": {
    "10001-01-P": {"mother": "10001-01-M", "father": "10001-01-F", "demographics": {"gender": "Male"}, "name": "Pat"},
    "10001-01-M": {"demographics": {"gender": "Female"}},
    "10001-01-F": {"demographics": {"gender": "Male"}}
  }
}`

// grandparents without separation has MF and FM in one cell
const overlapJSON = `{
  "proband": "P",
  "people": {
    "P":  {"mother": "M", "father": "F", "demographics": {"gender": "Male"}},
    "M":  {"mother": "MM", "father": "MF", "demographics": {"gender": "Female"}},
    "F":  {"mother": "FM", "father": "FF", "demographics": {"gender": "Male"}},
    "MM": {"demographics": {"gender": "Female"}},
    "MF": {"demographics": {"gender": "Male"}},
    "FM": {"demographics": {"gender": "Female"}},
    "FF": {"demographics": {"gender": "Male"}}
  }
}`

func writeDataset(t *testing.T, dir, id, content string) string {
	t.Helper()
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store, err := annotation.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, store, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"graphviz", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.SetDefaults()
	if o.MaxDepth != 64 || o.Geometry.HSpacing != 40 || len(o.Formats) != 1 || o.Logger == nil {
		t.Errorf("SetDefaults() = %+v", o)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "nope.json")); !perrors.Is(err, perrors.ErrCodeFamilyNotFound) {
		t.Errorf("missing file error = %v, want FAMILY_NOT_FOUND", err)
	}
	bad := writeDataset(t, dir, "bad", `{"people": [1, 2]}`)
	if _, err := LoadFile(bad); !perrors.Is(err, perrors.ErrCodeInvalidDataset) {
		t.Errorf("bad file error = %v, want INVALID_DATASET", err)
	}
}

func TestFamilyPathAndList(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "20002", trioJSON)
	writeDataset(t, dir, "10001", trioJSON)
	if err := os.WriteFile(filepath.Join(dir, "10001.annotations.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ListFamilies(dir)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(ids, ",") != "10001,20002" {
		t.Errorf("ListFamilies() = %v", ids)
	}

	if _, err := FamilyPath(dir, "../x"); err == nil {
		t.Error("FamilyPath(../x) should fail")
	}
	if got, _ := FamilyPath(dir, "10001"); got != filepath.Join(dir, "10001.json") {
		t.Errorf("FamilyPath() = %q", got)
	}
}

func TestGenerateLayoutKeepsInput(t *testing.T) {
	ds, err := LoadFile(writeDataset(t, t.TempDir(), "10001", trioJSON))
	if err != nil {
		t.Fatal(err)
	}
	l, err := GenerateLayout(ds, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := ds.Person("10001-01-M"); p.Placed {
		t.Error("GenerateLayout() modified the input dataset")
	}
	if p, _ := l.Dataset.Person("10001-01-M"); !p.HasSlot || p.Slot != -3 {
		t.Errorf("laid-out mother = %+v, want slot -3", p)
	}
	if l.FamilyID() != "10001" {
		t.Errorf("FamilyID() = %q", l.FamilyID())
	}
}

func TestMarshalLayoutRoundTrip(t *testing.T) {
	ds, _ := LoadFile(writeDataset(t, t.TempDir(), "10001", trioJSON))
	l, _ := GenerateLayout(ds, Options{})

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash != l.Hash {
		t.Errorf("Hash = %s, want %s", got.Hash, l.Hash)
	}
	if strings.Join(got.Result.Tree, ",") != strings.Join(l.Result.Tree, ",") {
		t.Errorf("Tree = %v, want %v", got.Result.Tree, l.Result.Tree)
	}
	if _, err := UnmarshalLayout([]byte(`{}`)); err == nil {
		t.Error("UnmarshalLayout({}) should fail")
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	path := writeDataset(t, t.TempDir(), "10001", trioJSON)
	opts := Options{Path: path, Formats: []string{"json", "dot", "svg"}, Labels: true}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.People != 3 || res.Stats.Members != 3 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", res.CacheInfo)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}
	if !strings.Contains(string(res.Artifacts["svg"]), ">Pat</text>") {
		t.Error("svg artifact missing label")
	}

	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.ChartHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", again.CacheInfo)
	}
	if again.Layout.Result.PassID != res.Layout.Result.PassID {
		t.Error("cached layout should keep its pass id")
	}
}

func TestExecuteRequiresPath(t *testing.T) {
	if _, err := newTestRunner(t).Execute(context.Background(), Options{}); err == nil {
		t.Error("Execute() without path should fail")
	}
}

func TestExecuteStrict(t *testing.T) {
	r := newTestRunner(t)
	path := writeDataset(t, t.TempDir(), "P", overlapJSON)
	opts := Options{Path: path, Strict: true, SkipSeparation: true}

	for run := 0; run < 2; run++ {
		res, err := r.Execute(context.Background(), opts)
		if !perrors.Is(err, perrors.ErrCodeLayoutOverlap) {
			t.Fatalf("run %d: error = %v, want LAYOUT_OVERLAP", run, err)
		}
		if res == nil || res.Layout == nil || len(res.Layout.Result.Overlaps) != 2 {
			t.Errorf("run %d: strict run should still return the layout", run)
		}
		if run == 1 && !res.CacheInfo.LayoutHit {
			t.Error("strict layout should be served from cache on the second run")
		}
	}

	opts.SkipSeparation = false
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Errorf("separated layout error = %v, want nil", err)
	}
}

func TestChartAppliesAnnotations(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	ds, _ := r.Load(ctx, writeDataset(t, t.TempDir(), "10001", trioJSON))
	l, err := r.Layout(ctx, ds, Options{})
	if err != nil {
		t.Fatal(err)
	}

	before, _ := r.Chart(ctx, l, Options{})
	if n, _ := before.Node("10001-01-F"); n.Manual {
		t.Fatal("no annotations saved yet")
	}

	ann := annotation.New("10001")
	ann.Set("10001-01-F", 500, 60)
	if err := r.Annotations.Save(ctx, "10001", ann); err != nil {
		t.Fatal(err)
	}

	after, hit, err := r.ChartWithCacheInfo(ctx, l, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("saved positions must change the chart cache key")
	}
	n, _ := after.Node("10001-01-F")
	if !n.Manual || n.X != 500 || n.Y != 60 {
		t.Errorf("F = %+v, want saved position", n)
	}

	ignored, _ := r.Chart(ctx, l, Options{IgnoreAnnotations: true})
	if n, _ := ignored.Node("10001-01-F"); n.Manual {
		t.Error("IgnoreAnnotations should skip saved positions")
	}
}

func TestRenderChartRejectsFormat(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	ds, _ := r.Load(ctx, writeDataset(t, t.TempDir(), "10001", trioJSON))
	l, _ := r.Layout(ctx, ds, Options{})
	c, _ := r.Chart(ctx, l, Options{})
	if _, err := r.Render(ctx, c, Options{Formats: []string{"gif"}}); err == nil {
		t.Error("Render(gif) should fail")
	}
}
