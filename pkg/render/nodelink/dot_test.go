package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/pedigree/pkg/chart"
)

func trioChart() *chart.Chart {
	return &chart.Chart{
		Proband:  "P",
		Width:    180,
		Height:   300,
		Geometry: chart.DefaultGeometry(),
		Nodes: []chart.Node{
			{ID: "P", Name: "Pat", Gender: "Male", Proband: true, X: 140, Y: 200},
			{ID: "M", Gender: "Female", Deceased: "1999", X: 100, Y: 100},
			{ID: "F", Gender: "Male", X: 140, Y: 100},
		},
		Links:   []chart.Link{{Child: "P", Mother: "M", Father: "F"}},
		Couples: []chart.Couple{{Mother: "M", Father: "F"}},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(trioChart(), Options{})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"P" [shape=box, pos="140,100!"`,
		`"M" [shape=circle, pos="100,200!"`,
		`"u:M:F" [shape=point, width=0.05, pos="120,200!"]`,
		`"M" -- "u:M:F";`,
		`"u:M:F" -- "F";`,
		`"u:M:F" -- "P";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should not draw arrowheads")
	}
}

func TestToDOT_NoCouples(t *testing.T) {
	c := &chart.Chart{Width: 140, Height: 200, Nodes: []chart.Node{{ID: "solo", Gender: "Unknown", X: 100, Y: 100}}}
	dot := ToDOT(c, Options{})
	if !strings.Contains(dot, "shape=diamond") {
		t.Error("unknown gender should be a diamond")
	}
	if strings.Contains(dot, "--") {
		t.Error("ToDOT() drew edges without couples")
	}
}

func TestFmtLabel(t *testing.T) {
	n := chart.Node{ID: "10001-01-P", Name: "Pat", Generation: -1, Slot: 3}
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"hidden", Options{}, ""},
		{"name", Options{Labels: true}, "Pat"},
		{"detailed", Options{Detailed: true}, "Pat\ngen: -1\nslot: 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(n, tt.opts); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		name string
		node chart.Node
		want []string
		not  []string
	}{
		{"regular", chart.Node{Gender: "Female"}, []string{"shape=circle"}, []string{"style=", "penwidth"}},
		{"placeholder", chart.Node{Gender: "Male", Placeholder: true}, []string{`style="dashed"`, "color=grey50"}, nil},
		{"deceased", chart.Node{Gender: "Male", Deceased: "true"}, []string{`style="filled,diagonals"`}, nil},
		{"proband", chart.Node{Gender: "Male", Proband: true}, []string{"penwidth=3"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joined := strings.Join(fmtAttrs(tt.node, 100, Options{}), " ")
			for _, w := range tt.want {
				if !strings.Contains(joined, w) {
					t.Errorf("fmtAttrs() = %s, missing %s", joined, w)
				}
			}
			for _, w := range tt.not {
				if strings.Contains(joined, w) {
					t.Errorf("fmtAttrs() = %s, should not contain %s", joined, w)
				}
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="180pt" height="300pt" viewBox="0.00 0.00 180.00 300.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `width="180" height="300"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(t.Context(), ToDOT(trioChart(), Options{Labels: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
