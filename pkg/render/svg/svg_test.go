package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/pedigree/pkg/chart"
)

func trioChart() *chart.Chart {
	return &chart.Chart{
		Width:    180,
		Height:   300,
		Geometry: chart.DefaultGeometry(),
		Nodes: []chart.Node{
			{ID: "P", Name: "Pat & Co", Gender: "Male", Proband: true, X: 140, Y: 200},
			{ID: "M", Gender: "Female", Deceased: "1999", X: 100, Y: 100},
			{ID: "F", Gender: "Male", X: 140, Y: 100},
			{ID: "f_M", Gender: "Unknown", Placeholder: true, X: 60, Y: 100},
		},
		Links:   []chart.Link{{Child: "P", Mother: "M", Father: "F"}},
		Couples: []chart.Couple{{Mother: "M", Father: "F"}},
	}
}

func TestRenderSymbols(t *testing.T) {
	doc := string(Render(trioChart()))

	for _, want := range []string{
		`viewBox="0 0 180.0 300.0" width="180" height="300"`,
		`<g class="person" id="person-P" data-id="P" transform="translate(140.0,200.0)">`,
		`<rect x="-15.0" y="-15.0" width="30.0" height="30.0"`,
		`<circle cx="0" cy="0" r="15.0"`,
		`<polygon points="0,-15.0 15.0,0 0,15.0 -15.0,0"`,
		`stroke-dasharray="4,3"`,
		`marker-end="url(#arrow)"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
	if strings.Contains(doc, "<text") {
		t.Error("Render() drew labels without WithLabels")
	}
	if strings.Contains(doc, "<script") {
		t.Error("Render() added scripts without options")
	}
}

func TestRenderConnectors(t *testing.T) {
	doc := string(Render(trioChart()))

	// couple line between the symbol edges
	if !strings.Contains(doc, `<line x1="115.0" y1="100.0" x2="125.0" y2="100.0"/>`) {
		t.Error("missing couple line")
	}
	// drop from the couple midpoint to the sibship bar
	if !strings.Contains(doc, `<line x1="120.0" y1="100.0" x2="120.0" y2="170.0"/>`) {
		t.Error("missing drop line")
	}
	if !strings.Contains(doc, `<polyline points="120.0,170.0 140.0,170.0 140.0,185.0"/>`) {
		t.Error("missing child connector")
	}
	if !strings.Contains(doc, `data-members="M F P"`) {
		t.Error("missing connector members")
	}
}

func TestRenderLabels(t *testing.T) {
	doc := string(Render(trioChart(), WithLabels()))

	if !strings.Contains(doc, ">Pat &amp; Co</text>") {
		t.Error("label should be escaped")
	}
	if !strings.Contains(doc, ">d. 1999</text>") {
		t.Error("missing deceased date")
	}
	if strings.Contains(doc, ">f_M</text>") {
		t.Error("placeholders should not be labeled")
	}
}

func TestRenderScripts(t *testing.T) {
	doc := string(Render(trioChart(), WithInteraction(), WithDragging("/annotations/10001")))

	if !strings.Contains(doc, "<style>") || !strings.Contains(doc, "function lineage") {
		t.Error("missing interaction script")
	}
	if !strings.Contains(doc, `fetch("/annotations/10001"`) {
		t.Error("missing drag endpoint")
	}
}
