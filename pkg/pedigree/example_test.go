package pedigree_test

import (
	"fmt"

	"github.com/matzehuels/pedigree/pkg/family"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func ExampleRun() {
	ds := family.NewDataset("P")
	_ = ds.Add(family.Person{ID: "P", MotherID: "M", FatherID: "F", Gender: family.GenderMale})
	_ = ds.Add(family.Person{ID: "M", Gender: family.GenderFemale})
	_ = ds.Add(family.Person{ID: "F", Gender: family.GenderMale})

	res, _ := pedigree.Run(ds, pedigree.Options{})
	for _, id := range res.Tree {
		p, _ := ds.Person(id)
		fmt.Println(id, p.Generation, p.Side, p.Slot)
	}
	fmt.Println("overlaps:", len(res.Overlaps))
	// Output:
	// P 0 proband -2
	// M -1 maternal -3
	// F -1 paternal -2
	// overlaps: 0
}

func ExampleMidpoint() {
	fmt.Println(pedigree.Midpoint(3, 6))
	fmt.Println(pedigree.Midpoint(-2, -3))
	// Output:
	// 5
	// -2
}
