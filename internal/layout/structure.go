package layout

import (
	"errors"
	"fmt"
)

// Kind names the semantic category of a region.
type Kind string

const (
	// KindTile is a grid of selectable image tiles.
	KindTile Kind = "tile"

	// KindBall is a set of round markers.
	KindBall Kind = "ball"

	// KindTargetBall is the distinguished target marker set.
	KindTargetBall Kind = "target_ball"
)

// Source records which strategy produced a region.
type Source string

const (
	SourceModel     Source = "model"
	SourceHeuristic Source = "heuristic"
	SourceFallback  Source = "fallback"
)

// GridCell is one interactive element: a tile or a marker.
//
// Score is nil for synthetic and heuristic cells, which have no detector
// confidence.
type GridCell struct {
	ID     int      `json:"id"`
	BBox   Box      `json:"bbox"`
	Center Point    `json:"center"`
	Score  *float64 `json:"score"`
}

// NewGridCell builds a cell whose center is derived from its box.
func NewGridCell(id int, bbox Box, score *float64) GridCell {
	return GridCell{ID: id, BBox: bbox, Center: bbox.Center(), Score: score}
}

// WithID returns a copy of the cell carrying a new id.
func (c GridCell) WithID(id int) GridCell {
	c.ID = id
	return c
}

// RegionMeta is the provenance of a region.
type RegionMeta struct {
	Source Source `json:"source"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}

// Region is one interactive area together with the cells it owns.
type Region struct {
	Kind    Kind        `json:"kind"`
	BBox    Box         `json:"bbox"`
	Centers []Point     `json:"centers"`
	Cells   []GridCell  `json:"cells,omitempty"`
	Meta    *RegionMeta `json:"meta,omitempty"`
}

// NewRegion builds a region whose bbox is the union of its cells and whose
// centers mirror the cell centers. The fallback box is used when cells is empty.
func NewRegion(kind Kind, cells []GridCell, fallback Box, meta *RegionMeta) Region {
	bbox := fallback
	centers := make([]Point, 0, len(cells))
	boxes := make([]Box, 0, len(cells))
	for _, c := range cells {
		centers = append(centers, c.Center)
		boxes = append(boxes, c.BBox)
	}
	if enclosing, ok := EnclosingBox(boxes); ok {
		bbox = enclosing
	}
	return Region{
		Kind:    kind,
		BBox:    bbox,
		Centers: centers,
		Cells:   cells,
		Meta:    meta,
	}
}

// StructureInfo is the layout of one challenge image.
//
// A StructureInfo is produced once per image by the assembler and must be
// treated as read-only by every caller. All id assignment, clipping and marker
// demotion happens before the value is returned.
type StructureInfo struct {
	ImageSize       Size       `json:"image_size"`
	InstructionArea *Box       `json:"instruction_area"`
	BodyArea        Box        `json:"body_area"`
	Regions         []Region   `json:"regions"`
	Balls           []GridCell `json:"balls"`
	TargetBalls     []GridCell `json:"target_balls"`
}

// TileRegions returns the regions of kind tile in their original order.
func (s *StructureInfo) TileRegions() []Region {
	var out []Region
	for _, r := range s.Regions {
		if r.Kind == KindTile {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks the structural contract of an assembled layout.
//
// It verifies that regions are non-empty, every cell lies inside its region
// and inside the body area, ids in each collection run 1..n, and at most one
// target marker exists. It is used by the tests and by the debug tooling; the
// assembler never returns a structure that fails it.
func (s *StructureInfo) Validate() error {
	if s.BodyArea.Empty() {
		return errors.New("body area is empty")
	}
	if len(s.Regions) == 0 {
		return errors.New("no regions")
	}
	for i, r := range s.Regions {
		if len(r.Centers) != len(r.Cells) {
			return fmt.Errorf("region %d: %d centers for %d cells", i, len(r.Centers), len(r.Cells))
		}
		for _, c := range r.Cells {
			if !r.BBox.Contains(c.BBox) {
				return fmt.Errorf("region %d: cell %d %s outside region %s", i, c.ID, c.BBox, r.BBox)
			}
			if !s.BodyArea.Contains(c.BBox) {
				return fmt.Errorf("region %d: cell %d %s outside body %s", i, c.ID, c.BBox, s.BodyArea)
			}
		}
		if err := checkSequentialIDs(r.Cells); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}
	for _, set := range []struct {
		name  string
		cells []GridCell
	}{{"balls", s.Balls}, {"target_balls", s.TargetBalls}} {
		if err := checkSequentialIDs(set.cells); err != nil {
			return fmt.Errorf("%s: %w", set.name, err)
		}
		for _, c := range set.cells {
			if !s.BodyArea.Contains(c.BBox) {
				return fmt.Errorf("%s: marker %d %s outside body %s", set.name, c.ID, c.BBox, s.BodyArea)
			}
		}
	}
	if len(s.TargetBalls) > 1 {
		return fmt.Errorf("%d target markers, want at most one", len(s.TargetBalls))
	}
	return nil
}

func checkSequentialIDs(cells []GridCell) error {
	for i, c := range cells {
		if c.ID != i+1 {
			return fmt.Errorf("cell at position %d has id %d, want %d", i, c.ID, i+1)
		}
	}
	return nil
}
