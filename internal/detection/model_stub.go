//go:build !gocv
// +build !gocv

package detection

import "fmt"

// newDefaultBackend reports that this build has no inference backend.
func newDefaultBackend(weightsPath string, inputSize int) (Backend, error) {
	_ = inputSize
	return nil, fmt.Errorf("%w: built without the gocv tag, cannot load %s", ErrModelUnavailable, weightsPath)
}
