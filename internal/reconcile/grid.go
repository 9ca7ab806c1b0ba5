package reconcile

import (
	"math"
	"sort"

	"github.com/ironsheep/challenge-layout/internal/detection"
	"github.com/ironsheep/challenge-layout/internal/layout"
)

const (
	// Row clustering when ordering cells: 0.6 of the median height, at least 5px.
	sortRowFactor = 0.6
	sortRowMin    = 5.0

	// Row clustering when estimating the grid shape: 0.6 of the mean height,
	// at least 6px.
	shapeRowFactor = 0.6
	shapeRowMin    = 6.0

	// SmallGridSide bounds the grids subject to the cardinality cap.
	SmallGridSide = 3

	// SmallGridCells is how many tiles a small grid keeps.
	SmallGridCells = SmallGridSide * SmallGridSide

	// MinGridCells is the fewest cells accepted as a grid.
	MinGridCells = 3
)

// RowThreshold is the vertical distance within which two cell centers belong to
// the same row when ordering cells.
func RowThreshold(boxes []layout.Box) float64 {
	if len(boxes) == 0 {
		return sortRowMin
	}
	heights := make([]float64, len(boxes))
	for i, b := range boxes {
		heights[i] = float64(b.H)
	}
	sort.Float64s(heights)
	n := len(heights)
	median := heights[n/2]
	if n%2 == 0 {
		median = (heights[n/2-1] + heights[n/2]) / 2
	}
	return math.Max(median*sortRowFactor, sortRowMin)
}

// EstimateShape clusters box centers into rows and returns the row count and
// the modal row length. When several lengths are equally common the longest
// wins.
func EstimateShape(boxes []layout.Box) (rows, cols int) {
	if len(boxes) == 0 {
		return 0, 0
	}
	var sum float64
	for _, b := range boxes {
		sum += float64(b.H)
	}
	threshold := math.Max(sum/float64(len(boxes))*shapeRowFactor, shapeRowMin)

	groups := clusterRows(boxes, threshold)

	counts := make(map[int]int)
	for _, g := range groups {
		counts[len(g)]++
	}
	best, bestCount := 0, 0
	for length, count := range counts {
		if count > bestCount || (count == bestCount && length > best) {
			best, bestCount = length, count
		}
	}
	return len(groups), best
}

// clusterRows groups box indexes into rows. Boxes are visited by center y and
// join the first row whose anchor (its first box) is within threshold; rows
// come back top to bottom.
func clusterRows(boxes []layout.Box, threshold float64) [][]int {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return boxes[order[a]].Center().Y < boxes[order[b]].Center().Y
	})

	var rows [][]int
	for _, idx := range order {
		cy := boxes[idx].Center().Y
		placed := false
		for r := range rows {
			anchor := boxes[rows[r][0]].Center().Y
			if math.Abs(anchor-cy) <= threshold {
				rows[r] = append(rows[r], idx)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []int{idx})
		}
	}
	return rows
}

// OrderGrid sorts candidates into row-major order: rows top to bottom, each row
// left to right. The input is not modified.
func OrderGrid(list []detection.Candidate) []detection.Candidate {
	boxes := make([]layout.Box, len(list))
	for i, c := range list {
		boxes[i] = c.Box
	}

	rows := clusterRows(boxes, RowThreshold(boxes))
	ordered := make([]detection.Candidate, 0, len(list))
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool {
			return boxes[row[a]].Center().X < boxes[row[b]].Center().X
		})
		for _, idx := range row {
			ordered = append(ordered, list[idx])
		}
	}
	return ordered
}

// capSmallGrid keeps the SmallGridCells highest-scoring candidates. Unscored
// candidates rank last and ties keep reading order.
func capSmallGrid(list []detection.Candidate) []detection.Candidate {
	ranked := readingOrder(list)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ScoreValue() > ranked[j].ScoreValue()
	})
	return ranked[:SmallGridCells]
}

// ReconcileGrid turns suppressed tile candidates into a tile region.
//
// When the estimated shape is at most 3x3 but more than nine candidates
// survived, only the nine best are kept. The rest are ordered row-major,
// numbered from 1 and clipped to the body; cells left without area are dropped
// and the survivors renumbered. Fewer than MinGridCells cells yield no region.
func ReconcileGrid(list []detection.Candidate, body layout.Box, source layout.Source) (layout.Region, bool) {
	if len(list) < MinGridCells {
		return layout.Region{}, false
	}

	boxes := make([]layout.Box, len(list))
	for i, c := range list {
		boxes[i] = c.Box
	}
	kept := list
	rows, cols := EstimateShape(boxes)
	if rows <= SmallGridSide && cols <= SmallGridSide && len(list) > SmallGridCells {
		kept = capSmallGrid(list)
	}

	ordered := OrderGrid(kept)
	cells := make([]layout.GridCell, 0, len(ordered))
	for i, c := range ordered {
		cells = append(cells, layout.NewGridCell(i+1, c.Box, c.Score))
	}

	cells = renumber(ClipCells(cells, body))
	if len(cells) < MinGridCells {
		return layout.Region{}, false
	}

	return tileRegion(cells, body, source), true
}

// tileRegion wraps cells in a region whose meta carries the shape of the final
// cells.
func tileRegion(cells []layout.GridCell, body layout.Box, source layout.Source) layout.Region {
	boxes := make([]layout.Box, len(cells))
	for i, c := range cells {
		boxes[i] = c.BBox
	}
	rows, cols := EstimateShape(boxes)
	meta := &layout.RegionMeta{Source: source, Rows: rows, Cols: cols}
	return layout.NewRegion(layout.KindTile, cells, body, meta)
}
