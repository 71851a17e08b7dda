package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pedigree/pkg/chart"
	"github.com/matzehuels/pedigree/pkg/render/nodelink"
)

func ExampleToDOT() {
	c := &chart.Chart{
		Height: 300,
		Nodes: []chart.Node{
			{ID: "child", Gender: "Female", X: 140, Y: 200},
			{ID: "mum", Gender: "Female", X: 100, Y: 100},
			{ID: "dad", Gender: "Male", X: 140, Y: 100},
		},
		Links:   []chart.Link{{Child: "child", Mother: "mum", Father: "dad"}},
		Couples: []chart.Couple{{Mother: "mum", Father: "dad"}},
	}

	dot := nodelink.ToDOT(c, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "--") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "mum" -- "u:mum:dad";
	// "u:mum:dad" -- "dad";
	// "u:mum:dad" -- "child";
}
