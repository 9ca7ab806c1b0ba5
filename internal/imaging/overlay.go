package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// Palette assigns an outline color to every annotated element class.
type Palette struct {
	Instruction  colorful.Color
	Body         colorful.Color
	Tile         colorful.Color
	TileDisabled colorful.Color
	Ball         colorful.Color
	TargetBall   colorful.Color
	Text         colorful.Color
}

// DefaultPalette returns the colors used by the debug overlays.
func DefaultPalette() Palette {
	return Palette{
		Instruction:  mustHex("#0095FF"),
		Body:         mustHex("#FFC85A"),
		Tile:         mustHex("#6EE650"),
		TileDisabled: mustHex("#96C88C"),
		Ball:         mustHex("#FF5050"),
		TargetBall:   mustHex("#FF0000"),
		Text:         mustHex("#FFFFFF"),
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("invalid palette color %q: %v", s, err))
	}
	return c
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RenderOverlay draws the structure onto a copy of img.
//
// The instruction box, body box, every region, every cell and every marker is
// outlined in its palette color and tagged with a short label ("tile #3",
// "target #1"). When markers are present the tile grid is drawn thin in a muted
// color because the markers are what the challenge asks about. The source image
// and the structure are left untouched.
func RenderOverlay(img image.Image, s *layout.StructureInfo, palette Palette) *image.NRGBA {
	out := imaging.Clone(img)

	if s.InstructionArea != nil {
		drawBox(out, *s.InstructionArea, rgba(palette.Instruction), 2)
		drawTag(out, *s.InstructionArea, "instruction", palette.Instruction, palette.Text)
	}
	drawBox(out, s.BodyArea, rgba(palette.Body), 2)
	drawTag(out, s.BodyArea, "body", palette.Body, palette.Text)

	skipTiles := len(s.Balls) > 0 || len(s.TargetBalls) > 0

	for _, region := range s.Regions {
		regionColor := palette.Tile
		if region.Kind == layout.KindTile && skipTiles {
			regionColor = palette.TileDisabled
		}
		label := string(region.Kind)
		if region.Meta != nil {
			label = fmt.Sprintf("%s (%s)", label, region.Meta.Source)
		}
		drawBox(out, region.BBox, rgba(regionColor), 2)
		drawTag(out, region.BBox, label, regionColor, palette.Text)

		for _, cell := range region.Cells {
			if region.Kind == layout.KindTile && skipTiles {
				drawBox(out, cell.BBox, rgba(regionColor), 1)
				continue
			}
			drawBox(out, cell.BBox, rgba(regionColor), 2)
			drawTag(out, cell.BBox, fmt.Sprintf("%s #%d", region.Kind, cell.ID), regionColor, palette.Text)
		}
	}

	for _, ball := range s.Balls {
		drawBox(out, ball.BBox, rgba(palette.Ball), 2)
		drawTag(out, ball.BBox, fmt.Sprintf("ball #%d", ball.ID), palette.Ball, palette.Text)
	}
	for _, target := range s.TargetBalls {
		drawBox(out, target.BBox, rgba(palette.TargetBall), 3)
		drawTag(out, target.BBox, fmt.Sprintf("target #%d", target.ID), palette.TargetBall, palette.Text)
	}

	return out
}

// Combine places the original and annotated images side by side with a 10px
// gap and "ORIGINAL" / "STRUCTURE" captions.
func Combine(original, annotated image.Image, palette Palette) *image.NRGBA {
	ob, ab := original.Bounds(), annotated.Bounds()
	height := ob.Dy()
	if ab.Dy() > height {
		height = ab.Dy()
	}
	canvas := imaging.New(ob.Dx()+ab.Dx()+10, height, color.Black)
	canvas = imaging.Paste(canvas, original, image.Pt(0, 0))
	canvas = imaging.Paste(canvas, annotated, image.Pt(ob.Dx()+10, 0))

	caption := palette.Text.BlendRgb(colorful.Color{}, 0.85)
	drawLabel(canvas, 10, 10, "ORIGINAL", rgba(palette.Text), rgba(caption))
	drawLabel(canvas, ob.Dx()+20, 10, "STRUCTURE", rgba(palette.Text), rgba(caption))
	return canvas
}

// SaveOverlay renders the structure over the image at imagePath and writes it
// to overlayPath. When combinedPath is not empty a side-by-side comparison is
// written there as well. Output format follows the file extension.
func SaveOverlay(imagePath string, s *layout.StructureInfo, overlayPath, combinedPath string) error {
	img, err := Open(imagePath)
	if err != nil {
		return err
	}
	palette := DefaultPalette()
	annotated := RenderOverlay(img, s, palette)
	if err := save(annotated, overlayPath); err != nil {
		return err
	}
	if combinedPath != "" {
		if err := save(Combine(img, annotated, palette), combinedPath); err != nil {
			return err
		}
	}
	return nil
}

func save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

// drawBox outlines b with the given stroke width, clipped to the image.
func drawBox(img *image.NRGBA, b layout.Box, c color.RGBA, thickness int) {
	bounds := img.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			img.Set(x, y, c)
		}
	}
	for t := 0; t < thickness; t++ {
		x1, y1 := b.X+t, b.Y+t
		x2, y2 := b.Right()-1-t, b.Bottom()-1-t
		if x2 < x1 || y2 < y1 {
			return
		}
		for x := x1; x <= x2; x++ {
			set(x, y1)
			set(x, y2)
		}
		for y := y1; y <= y2; y++ {
			set(x1, y)
			set(x2, y)
		}
	}
}

// drawTag labels the top-left corner of a box on a darkened swatch of its color.
func drawTag(img *image.NRGBA, b layout.Box, text string, boxColor, textColor colorful.Color) {
	bg := boxColor.BlendRgb(colorful.Color{}, 0.55)
	drawLabel(img, b.X+4, b.Y+4, text, rgba(textColor), rgba(bg))
}

// drawLabel draws text with a filled background, top-left anchored at (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Metrics().Height.Ceil()

	rect := image.Rect(x-1, y-1, x+width+1, y+height+1).Intersect(img.Bounds())
	draw.Draw(img, rect, image.NewUniform(bg), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
