// Package testutil builds synthetic challenge screenshots for tests.
package testutil

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Scene geometry shared by the tests that drive the heuristic path.
const (
	SceneWidth  = 500
	SceneHeight = 430

	// BarHeight is the height of the dark instruction bar at the top.
	BarHeight = 60

	TileSize  = 76
	TileGap   = 24
	TileLeft  = 100
	TileTop   = 152
	TileStep  = TileSize + TileGap
	GridSide  = 3
	TileCount = GridSide * GridSide
)

var (
	Background = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	Bar        = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	Tile       = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
)

// Fill paints a rectangle of img.
func Fill(img *image.NRGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// Blank returns a uniformly light image.
func Blank(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	Fill(img, img.Bounds(), Background)
	return img
}

// TileRect returns the rectangle of the tile at row, col of the 3x3 scene grid.
func TileRect(row, col int) image.Rectangle {
	x := TileLeft + col*TileStep
	y := TileTop + row*TileStep
	return image.Rect(x, y, x+TileSize, y+TileSize)
}

// ChallengeImage draws a light screenshot with a dark instruction bar and a
// 3x3 grid of dark squares below it.
func ChallengeImage() *image.NRGBA {
	img := Blank(SceneWidth, SceneHeight)
	Fill(img, image.Rect(0, 0, SceneWidth, BarHeight), Bar)
	for row := 0; row < GridSide; row++ {
		for col := 0; col < GridSide; col++ {
			Fill(img, TileRect(row, col), Tile)
		}
	}
	return img
}

// WritePNG encodes img into a temporary directory and returns the file path.
func WritePNG(t testing.TB, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", path, err)
	}
	return path
}

// WriteFile writes raw bytes into a temporary directory and returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
