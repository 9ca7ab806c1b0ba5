package layout

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned bounding box in source-image pixel space.
//
// The box covers the half-open pixel range [X, X+W) × [Y, Y+H). On the wire it is
// encoded as a 4-element array [x, y, width, height], which is the shape the
// labeling and training tools read back.
type Box struct {
	X int
	Y int
	W int
	H int
}

// Point is a sub-pixel coordinate, used for element centers.
type Point struct {
	X float64
	Y float64
}

// Size holds image dimensions in pixels.
type Size struct {
	Width  int
	Height int
}

// BoxFromCorners builds a box from corner coordinates, taking the origin from the
// truncated top-left corner and never producing a side shorter than one pixel.
func BoxFromCorners(x1, y1, x2, y2 float64) Box {
	return Box{
		X: int(x1),
		Y: int(y1),
		W: maxInt(1, int(x2-x1)),
		H: maxInt(1, int(y2-y1)),
	}
}

// Right returns the exclusive right edge.
func (b Box) Right() int { return b.X + b.W }

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() int { return b.Y + b.H }

// Area returns W×H, or 0 for a degenerate box.
func (b Box) Area() int {
	if b.Empty() {
		return 0
	}
	return b.W * b.H
}

// Empty reports whether the box has no positive area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{
		X: float64(b.X) + float64(b.W)/2.0,
		Y: float64(b.Y) + float64(b.H)/2.0,
	}
}

// Intersect returns the overlap of b and o. The second result is false when the
// overlap has non-positive width or height.
func (b Box) Intersect(o Box) (Box, bool) {
	x1 := maxInt(b.X, o.X)
	y1 := maxInt(b.Y, o.Y)
	x2 := minInt(b.Right(), o.Right())
	y2 := minInt(b.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Box{}, false
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// Union returns the smallest box enclosing both b and o.
func (b Box) Union(o Box) Box {
	x1 := minInt(b.X, o.X)
	y1 := minInt(b.Y, o.Y)
	x2 := maxInt(b.Right(), o.Right())
	y2 := maxInt(b.Bottom(), o.Bottom())
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Contains reports whether o lies fully inside b.
func (b Box) Contains(o Box) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Translate shifts the box by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}

// IoU returns the intersection-over-union ratio of two boxes (0 when disjoint).
func IoU(a, b Box) float64 {
	inter, ok := a.Intersect(b)
	if !ok {
		return 0
	}
	ia := float64(inter.Area())
	union := float64(a.Area()+b.Area()) - ia
	if union <= 0 {
		return 0
	}
	return ia / union
}

// OverlapSmaller returns the intersection area divided by the area of the
// smaller box. It is 1 when one box fully covers the other.
func OverlapSmaller(a, b Box) float64 {
	inter, ok := a.Intersect(b)
	if !ok {
		return 0
	}
	smaller := minInt(a.Area(), b.Area())
	if smaller <= 0 {
		return 0
	}
	return float64(inter.Area()) / float64(smaller)
}

// EnclosingBox returns the tight union of the given boxes.
func EnclosingBox(boxes []Box) (Box, bool) {
	if len(boxes) == 0 {
		return Box{}, false
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = out.Union(b)
	}
	return out, true
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.W, b.H)
}

// MarshalJSON encodes the box as [x, y, width, height].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON decodes a [x, y, width, height] array.
func (b *Box) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("bbox: %w", err)
	}
	if len(v) != 4 {
		return fmt.Errorf("bbox: expected 4 values, got %d", len(v))
	}
	*b = Box{X: v[0], Y: v[1], W: v[2], H: v[3]}
	return nil
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes an [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("center: %w", err)
	}
	if len(v) != 2 {
		return fmt.Errorf("center: expected 2 values, got %d", len(v))
	}
	*p = Point{X: v[0], Y: v[1]}
	return nil
}

// MarshalJSON encodes the size as [width, height].
func (s Size) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Width, s.Height})
}

// UnmarshalJSON decodes a [width, height] array.
func (s *Size) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("image_size: %w", err)
	}
	if len(v) != 2 {
		return fmt.Errorf("image_size: expected 2 values, got %d", len(v))
	}
	*s = Size{Width: v[0], Height: v[1]}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
