package reconcile

import "github.com/ironsheep/challenge-layout/internal/layout"

// FallbackGrid partitions the body into a uniform 3x3 grid of unscored cells,
// numbered row-major from 1.
//
// Cell size is the integer third of the body width and height, so a few pixels
// at the right and bottom edges may stay uncovered. Bodies narrower or shorter
// than three pixels get fewer cells.
func FallbackGrid(body layout.Box) layout.Region {
	cw := maxInt(body.W/SmallGridSide, 1)
	ch := maxInt(body.H/SmallGridSide, 1)

	cells := make([]layout.GridCell, 0, SmallGridCells)
	for row := 0; row < SmallGridSide; row++ {
		for col := 0; col < SmallGridSide; col++ {
			box := layout.Box{X: body.X + col*cw, Y: body.Y + row*ch, W: cw, H: ch}
			cells = append(cells, layout.NewGridCell(len(cells)+1, box, nil))
		}
	}
	cells = renumber(ClipCells(cells, body))

	return tileRegion(cells, body, layout.SourceFallback)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
