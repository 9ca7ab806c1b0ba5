package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DebugFileName is the file written into the debug directory for every detection.
const DebugFileName = "structure_debug.json"

// WriteJSON encodes the structure in its documented shape, indented by two spaces.
func WriteJSON(w io.Writer, s *StructureInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode structure: %w", err)
	}
	return nil
}

// WriteDebugJSON writes the structure to dir/structure_debug.json, creating the
// directory when needed, and returns the written path.
func WriteDebugJSON(dir string, s *StructureInfo) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create debug dir: %w", err)
	}
	path := filepath.Join(dir, DebugFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create debug file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, s); err != nil {
		return "", err
	}
	return path, nil
}

// ReadJSON decodes a structure previously written by WriteJSON.
func ReadJSON(r io.Reader) (*StructureInfo, error) {
	var s StructureInfo
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode structure: %w", err)
	}
	return &s, nil
}

// LoadJSON reads a structure from a file on disk.
func LoadJSON(path string) (*StructureInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open structure: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}
