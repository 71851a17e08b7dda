// Package svg draws a pedigree chart as a standalone SVG document.
//
// Symbols follow the usual pedigree conventions: squares for males,
// circles for females, diamonds when the gender is unknown. A diagonal
// stroke marks a deceased person and an arrow points at the proband.
// Placeholder parents are drawn dashed and without a label.
//
// Partners are joined by a horizontal line. A line drops from the middle of
// that line to a sibship bar above the children, and from the bar to each
// child.
//
//	doc := svg.Render(c, svg.WithLabels(), svg.WithInteraction())
//
// [WithDragging] adds a script that lets a viewer move symbols and posts
// the new positions to an annotations endpoint.
package svg
