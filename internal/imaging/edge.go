package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// EdgeOptions tunes EdgeMask.
type EdgeOptions struct {
	// BlurRadius is the Gaussian radius applied before gradients. Zero disables blurring.
	BlurRadius float64

	// ThresholdLow and ThresholdHigh are the hysteresis thresholds (0-255).
	ThresholdLow  int
	ThresholdHigh int

	// DilateRadius grows the edge mask so broken outlines join up. Zero disables dilation.
	DilateRadius float64
}

// DefaultEdgeOptions matches the contour pass of the heuristic tile detector:
// light blur, Canny thresholds 30/120 and a 2px dilation.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		BlurRadius:    1.5,
		ThresholdLow:  30,
		ThresholdHigh: 120,
		DilateRadius:  2,
	}
}

// EdgeMask runs Canny-style edge detection over rect and returns a binary mask
// indexed [y][x] relative to rect.Min. An empty or out-of-image rect yields nil.
//
// # Algorithm
//
//  1. Crop and convert to grayscale
//  2. Gaussian blur (bild)
//  3. Sobel gradients: magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx)
//  4. Non-maximum suppression along the gradient direction
//  5. Hysteresis: strong pixels are kept, weak pixels only next to strong ones
//  6. Dilation (bild) so neighbouring fragments merge into one contour
//
// Border pixels of the cropped area are never edges.
func EdgeMask(img image.Image, rect image.Rectangle, opts EdgeOptions) [][]bool {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}

	var src image.Image = Luminance(imaging.Crop(img, rect))
	if opts.BlurRadius > 0 {
		src = blur.Gaussian(src, opts.BlurRadius)
	}

	width, height := rect.Dx(), rect.Dy()
	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := src.At(x, y).RGBA()
			gray[y][x] = float64(r>>8) / 255.0
		}
	}

	edges := canny(gray, width, height, float64(opts.ThresholdLow)/255.0, float64(opts.ThresholdHigh)/255.0)
	if opts.DilateRadius > 0 {
		edges = dilate(edges, width, height, opts.DilateRadius)
	}
	return edges
}

func canny(gray [][]float64, width, height int, lowThresh, highThresh float64) [][]bool {
	magnitude := make([][]float64, height)
	direction := make([][]float64, height)

	sobelX := [][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
					gy += gray[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				edges[y][x] = true
			} else if val >= lowThresh {
				strong := false
				for ky := -1; ky <= 1 && !strong; ky++ {
					for kx := -1; kx <= 1 && !strong; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= highThresh {
							strong = true
						}
					}
				}
				edges[y][x] = strong
			}
		}
	}
	return edges
}

func dilate(edges [][]bool, width, height int, radius float64) [][]bool {
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	grown := effect.Dilate(mask, radius)
	out := make([][]bool, height)
	for y := 0; y < height; y++ {
		out[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			r, _, _, _ := grown.At(x, y).RGBA()
			out[y][x] = r>>8 > 127
		}
	}
	return out
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
