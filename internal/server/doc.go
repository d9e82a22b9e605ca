// Package server implements the MCP (Model Context Protocol) server for camera media payloads.
//
// This package provides a JSON-RPC 2.0 server that exposes the decode layer
// through the MCP protocol. A client names an encoded payload file and its
// declared content type; the server resolves the type, decodes the payload
// on first use, and answers pixel questions against the decoded buffer.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
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
// Payload Information:
//   - image_load: Load a payload and report type, decode status and size
//   - image_dimensions: Get width and height of the decoded image
//   - image_content_type: Resolve a content-type string
//
// Region Operations:
//   - image_crop: Extract rectangular region as PNG
//
// Color Operations:
//   - image_sample_color: Get stored channel values at a pixel
//   - image_sample_colors_multi: Sample multiple points
//   - image_dominant_colors: Extract color palette
//
// Every payload tool accepts an optional content_type. When omitted, the type
// is inferred from the file extension.
//
// # Payload Caching
//
// The server keeps one handle per (path, content type) pair. Each handle
// decodes at most once, so repeated tool calls against the same payload share
// a single pixel buffer. A payload that cannot be decoded is remembered as
// such and is not retried.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    logger.Error("server stopped", slog.Any("error", err))
//	}
package server
