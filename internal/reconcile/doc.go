// Package reconcile assembles detections into a StructureInfo.
//
// A Detector runs an ordered chain of Strategy values. Each strategy pairs a
// detection.Source with the gate and suppressor that fit its output; the first
// strategy whose source succeeds supplies the candidates. The standard chain built
// by FromConfig tries the learned model first and the heuristic source second.
//
// The candidates then go through four stages:
//
//   - LocateAreas picks the instruction and body boxes.
//   - ReconcileGrid clips tiles to the body, caps small grids at nine cells and
//     numbers the survivors row-major.
//   - FallbackGrid partitions the body 3x3 when no reliable grid exists.
//   - ReconcileMarkers orders balls and keeps a single target marker.
//
// # Guarantees
//
// DetectStructure fails only for unreadable input or a cancelled context. Every
// structure it returns passes layout.StructureInfo.Validate: cells and markers lie
// inside the body area, ids in each collection run 1..n and at most one target
// marker exists.
//
// # Logging
//
// Detectors log through zap. Strategy failures are logged at Warn, the chosen
// source at Info and per-stage counts at Debug.
package reconcile
