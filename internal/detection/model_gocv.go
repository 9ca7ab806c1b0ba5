//go:build gocv
// +build gocv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/challenge-layout/internal/layout"
)

// gocvBackend runs an ONNX detector through the OpenCV DNN module.
//
// The network takes an RGB blob scaled to [0, 1] at inputSize x inputSize and
// produces one [N, 6] tensor of x1, y1, x2, y2, score, label rows in input
// coordinates.
type gocvBackend struct {
	net       gocv.Net
	inputSize int
}

func newDefaultBackend(weightsPath string, inputSize int) (Backend, error) {
	net := gocv.ReadNet(weightsPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("%w: cannot read network from %s", ErrModelUnavailable, weightsPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return &gocvBackend{net: net, inputSize: inputSize}, nil
}

func (b *gocvBackend) Infer(img image.Image) ([]Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%w: convert image: %v", ErrInference, err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInference)
	}

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(b.inputSize, b.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	b.net.SetInput(blob, "")
	out := b.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", ErrInference, err)
	}
	if len(data)%6 != 0 {
		return nil, fmt.Errorf("%w: unexpected output size %d", ErrInference, len(data))
	}

	bounds := img.Bounds()
	sx := float64(bounds.Dx()) / float64(b.inputSize)
	sy := float64(bounds.Dy()) / float64(b.inputSize)

	detections := make([]Detection, 0, len(data)/6)
	for i := 0; i+6 <= len(data); i += 6 {
		row := data[i : i+6]
		score := float64(row[4])
		detections = append(detections, Detection{
			Box: layout.BoxFromCorners(
				float64(row[0])*sx, float64(row[1])*sy,
				float64(row[2])*sx, float64(row[3])*sy,
			),
			Label: int(row[5]),
			Score: &score,
		})
	}
	return detections, nil
}

func (b *gocvBackend) Close() error {
	return b.net.Close()
}
