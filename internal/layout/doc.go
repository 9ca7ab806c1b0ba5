// Package layout defines the machine-readable description of a challenge image.
//
// A StructureInfo records where the instruction text sits, where the interactive
// body is, and every interactive element (grid tiles, round markers and the
// single target marker) with a deterministic id and a pixel box.
//
// # Coordinate System
//
// Boxes are stored as (x, y, width, height) in source-image pixels with the
// origin at the top-left corner. Centers are floating-point midpoints.
//
// # Wire Format
//
// The JSON encoding mirrors the data model exactly:
//
//	{
//	  "image_size": [500, 430],
//	  "instruction_area": [0, 0, 500, 86],
//	  "body_area": [0, 86, 500, 344],
//	  "regions": [{"kind": "tile", "bbox": [...], "centers": [...],
//	               "cells": [{"id": 1, "bbox": [...], "center": [...], "score": 0.93}],
//	               "meta": {"source": "model", "rows": 3, "cols": 3}}],
//	  "balls": null,
//	  "target_balls": null
//	}
//
// Integer box coordinates survive a round trip unchanged.
package layout
