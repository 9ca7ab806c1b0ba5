// Package detection turns an image into raw element candidates.
//
// A Source proposes boxes for an image. Two sources exist:
//
//   - ModelSource runs a learned detector exported to ONNX. Its boxes carry a raw
//     class id, resolved through the Vocabulary loaded from the model config, and
//     a confidence score.
//   - HeuristicSource finds tile outlines with edge detection and contour
//     analysis. It needs no model files and its boxes carry no score.
//
// The Gate drops detections outside the vocabulary and scored detections below
// the confidence threshold, grouping the rest by Category. A Suppressor then
// collapses duplicates within each category: ScoreNMS for scored boxes and
// SizeNMS for unscored ones.
//
// # Coordinate System
//
// All boxes are layout.Box values in source-image pixels: origin at the top-left,
// X increasing rightward, Y increasing downward.
//
// # Build Tags
//
// The OpenCV inference backend is compiled only with the gocv build tag. Without
// it ModelSource reports ErrModelUnavailable and callers fall back to the
// heuristic source.
//
// # Limitations
//
// The heuristic source works best on clean, high-contrast screenshots where
// tiles are separated by visible gaps. Tiles that touch merge into one contour and
// are dropped by the area gate when the merged box covers most of the body.
package detection
