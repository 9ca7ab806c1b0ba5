// Package server exposes structure detection over MCP (Model Context Protocol).
//
// The server speaks JSON-RPC 2.0 over stdio so that an instruction resolver can
// ask for the layout of a challenge screenshot and act on cell ids:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - detect_structure: the full StructureInfo of an image
//   - render_structure_overlay: draw the structure and write it to disk
//   - crop_cell: one tile cell as base64-encoded PNG
//   - image_dimensions: width, height, format and file size
//   - reload_model: drop the cached model and images
//
// # Image Caching
//
// Decoded images are cached by path and shared between the detector and the
// other tools. An image whose file changed on disk is evicted before the next
// tool call uses it. reload_model clears the cache.
//
// # Logging
//
// stdout carries the protocol, so the server logs through zap to whatever sink
// the caller configured (stderr for the CLI).
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: the Go error string
package server
