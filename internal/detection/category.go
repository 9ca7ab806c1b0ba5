package detection

import (
	"fmt"
	"strings"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// Category is the closed set of element classes the reconciler understands.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryInstruction
	CategoryBody
	CategoryTile
	CategoryBall
	CategoryTargetBall
)

var categoryNames = map[Category]string{
	CategoryInstruction: "instruction",
	CategoryBody:        "body",
	CategoryTile:        "tile",
	CategoryBall:        "ball",
	CategoryTargetBall:  "target_ball",
}

// ParseCategory maps a vocabulary name onto a Category. Matching ignores case
// and surrounding space. Names outside the vocabulary return CategoryUnknown
// and false.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return CategoryUnknown, false
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// Kind returns the layout kind for element categories.
func (c Category) Kind() layout.Kind {
	switch c {
	case CategoryTile:
		return layout.KindTile
	case CategoryBall:
		return layout.KindBall
	case CategoryTargetBall:
		return layout.KindTargetBall
	}
	return layout.Kind(c.String())
}

// DefaultCategoryNames is the label order used by the training tooling.
var DefaultCategoryNames = []string{"instruction", "body", "tile", "ball", "target_ball"}

// Vocabulary maps raw detector label ids onto categories.
//
// Label id 0 is the background class; the category at position i of the
// configured name list has label id i+1. Names the reconciler does not know are
// kept in the table as CategoryUnknown so their ids are dropped by the gate.
type Vocabulary struct {
	names []string
	byID  map[int]Category
}

// NewVocabulary resolves an ordered list of category names into a lookup table.
func NewVocabulary(names []string) (*Vocabulary, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty category list", ErrModelUnavailable)
	}
	v := &Vocabulary{
		names: append([]string(nil), names...),
		byID:  make(map[int]Category, len(names)),
	}
	for i, name := range names {
		c, _ := ParseCategory(name)
		v.byID[i+1] = c
	}
	return v, nil
}

// Lookup returns the category for a raw label id.
func (v *Vocabulary) Lookup(labelID int) (Category, bool) {
	c, ok := v.byID[labelID]
	if !ok || c == CategoryUnknown {
		return CategoryUnknown, false
	}
	return c, true
}

// Len returns the number of named classes, excluding background.
func (v *Vocabulary) Len() int { return len(v.names) }

// Names returns a copy of the configured names.
func (v *Vocabulary) Names() []string { return append([]string(nil), v.names...) }
