package imaging

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/challenge-layout/internal/layout"
	"github.com/ironsheep/challenge-layout/internal/testutil"
)

func overlayStructure(withMarkers bool) *layout.StructureInfo {
	instruction := layout.Box{X: 0, Y: 0, W: 500, H: 70}
	body := layout.Box{X: 0, Y: 70, W: 500, H: 360}

	var cells []layout.GridCell
	id := 1
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r := testutil.TileRect(row, col)
			cells = append(cells, layout.NewGridCell(id, layout.Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}, nil))
			id++
		}
	}
	meta := &layout.RegionMeta{Source: layout.SourceHeuristic, Rows: 3, Cols: 3}

	s := &layout.StructureInfo{
		ImageSize:       layout.Size{Width: 500, Height: 430},
		InstructionArea: &instruction,
		BodyArea:        body,
		Regions:         []layout.Region{layout.NewRegion(layout.KindTile, cells, body, meta)},
		Balls:           []layout.GridCell{},
		TargetBalls:     []layout.GridCell{},
	}
	if withMarkers {
		s.Balls = []layout.GridCell{layout.NewGridCell(1, layout.Box{X: 20, Y: 380, W: 30, H: 30}, nil)}
		s.TargetBalls = []layout.GridCell{layout.NewGridCell(1, layout.Box{X: 420, Y: 380, W: 30, H: 30}, nil)}
	}
	return s
}

func TestRenderOverlay(t *testing.T) {
	src := testutil.ChallengeImage()
	before := src.NRGBAAt(450, 250)
	palette := DefaultPalette()

	out := RenderOverlay(src, overlayStructure(false), palette)

	if out.Bounds() != src.Bounds() {
		t.Fatalf("overlay bounds: got %v, want %v", out.Bounds(), src.Bounds())
	}
	if src.NRGBAAt(450, 250) != before {
		t.Error("RenderOverlay modified the source image")
	}

	// Bottom-right corner of the centre tile is outlined in the tile color.
	tile := testutil.TileRect(1, 1)
	got := out.NRGBAAt(tile.Max.X-1, tile.Max.Y-1)
	want := rgba(palette.Tile)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("tile outline: got %v, want %v", got, want)
	}

	// Body outline along the right edge, away from any label.
	got = out.NRGBAAt(499, 300)
	want = rgba(palette.Body)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("body outline: got %v, want %v", got, want)
	}
}

func TestRenderOverlay_MarkersMuteTiles(t *testing.T) {
	palette := DefaultPalette()
	out := RenderOverlay(testutil.ChallengeImage(), overlayStructure(true), palette)

	tile := testutil.TileRect(1, 1)
	got := out.NRGBAAt(tile.Max.X-1, tile.Max.Y-1)
	want := rgba(palette.TileDisabled)
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Errorf("muted tile outline: got %v, want %v", got, want)
	}
	// Thin outline: one pixel in from the tile edge is untouched.
	if inner := out.NRGBAAt(tile.Max.X-2, tile.Max.Y-2); inner != testutil.Tile {
		t.Errorf("muted tile should have a 1px outline, found %v inside", inner)
	}

	// Target outline is three pixels thick.
	target := rgba(palette.TargetBall)
	for i := 0; i < 3; i++ {
		got := out.NRGBAAt(449-i, 409-i)
		if got.R != target.R || got.G != target.G || got.B != target.B {
			t.Errorf("target outline ring %d: got %v, want %v", i, got, target)
		}
	}
}

func TestCombine(t *testing.T) {
	a := testutil.Blank(100, 80)
	b := testutil.Blank(120, 60)
	out := Combine(a, b, DefaultPalette())
	if out.Bounds() != image.Rect(0, 0, 230, 80) {
		t.Errorf("combined bounds: got %v, want 230x80", out.Bounds())
	}
}

func TestSaveOverlay(t *testing.T) {
	src := testutil.WritePNG(t, testutil.ChallengeImage(), "shot.png")
	dir := filepath.Join(t.TempDir(), "nested")
	overlayPath := filepath.Join(dir, "overlay.png")
	combinedPath := filepath.Join(dir, "combined.png")

	if err := SaveOverlay(src, overlayStructure(true), overlayPath, combinedPath); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}
	for _, p := range []string{overlayPath, combinedPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}

	img, err := Open(combinedPath)
	if err != nil {
		t.Fatalf("combined image unreadable: %v", err)
	}
	if img.Bounds().Dx() != 2*testutil.SceneWidth+10 {
		t.Errorf("combined width: got %d", img.Bounds().Dx())
	}
}

func TestSaveOverlay_UnreadableSource(t *testing.T) {
	err := SaveOverlay("/nonexistent.png", overlayStructure(false), filepath.Join(t.TempDir(), "o.png"), "")
	if err == nil {
		t.Error("SaveOverlay should fail for a missing source image")
	}
}
