package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

const (
	// InstructionScanFraction is the top share of the image searched for the
	// instruction band.
	InstructionScanFraction = 0.35

	// InstructionDarkRatio marks a row as part of the band when its mean
	// brightness falls under this share of the profile mean.
	InstructionDarkRatio = 0.97

	// DefaultInstructionFraction is the top share of the image used as the
	// instruction area when no band is found.
	DefaultInstructionFraction = 0.2

	instructionPadding = 10
	profileBlurRadius  = 2.0
)

// Luminance converts an image to 8-bit grayscale with its origin at (0, 0).
// Channel weights are bild's 0.3R + 0.6G + 0.1B.
func Luminance(img image.Image) *image.Gray {
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.PixOffset(b.Min.X, b.Min.Y+y)
		dst := gray.PixOffset(0, y)
		for x := 0; x < b.Dx(); x++ {
			gray.Pix[dst+x] = rgba.Pix[src+4*x]
		}
	}
	return gray
}

// RowBrightness returns the mean gray level (0-255) of each of the first rows
// rows of a grayscale image. Rows beyond the image height are ignored.
func RowBrightness(gray *image.Gray, rows int) []float64 {
	b := gray.Bounds()
	if rows > b.Dy() {
		rows = b.Dy()
	}
	width := b.Dx()
	profile := make([]float64, 0, rows)
	for y := 0; y < rows; y++ {
		var sum int
		off := gray.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			sum += int(gray.Pix[off+x])
		}
		profile = append(profile, float64(sum)/float64(width))
	}
	return profile
}

// DefaultInstructionArea is the top strip assumed to hold the instruction
// text when nothing better is known.
func DefaultInstructionArea(width, height int) layout.Box {
	return layout.Box{X: 0, Y: 0, W: width, H: int(DefaultInstructionFraction * float64(height))}
}

// InstructionBand locates the instruction text from the horizontal brightness
// profile of the top of the image.
//
// Rows in the top 35% whose mean brightness is under 97% of the profile mean
// form the band; the band ends ten pixels below the last such row, capped at the
// scan limit. When no row qualifies the top-20% default is returned with false.
func InstructionBand(img image.Image) (layout.Box, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	scan := int(float64(height) * InstructionScanFraction)
	if width == 0 || scan == 0 {
		return DefaultInstructionArea(width, height), false
	}

	blurred := Luminance(blur.Gaussian(img, profileBlurRadius))
	profile := RowBrightness(blurred, scan)

	var mean float64
	for _, v := range profile {
		mean += v
	}
	mean /= float64(len(profile))
	threshold := mean * InstructionDarkRatio

	last := -1
	for y, v := range profile {
		if v < threshold {
			last = y
		}
	}
	if last < 0 {
		return DefaultInstructionArea(width, height), false
	}

	bottom := last + instructionPadding
	if bottom > scan {
		bottom = scan
	}
	return layout.Box{X: 0, Y: 0, W: width, H: bottom}, true
}

// BodyBelow returns the region of the image under an instruction box. When
// instruction is nil the body starts at the default 20% line.
func BodyBelow(instruction *layout.Box, width, height int) layout.Box {
	top := int(DefaultInstructionFraction * float64(height))
	if instruction != nil {
		top = instruction.Bottom()
	}
	if top > height-1 {
		top = height - 1
	}
	if top < 0 {
		top = 0
	}
	h := height - top
	if h < 1 {
		h = 1
	}
	return layout.Box{X: 0, Y: top, W: width, H: h}
}
