// Package server implements the MCP (Model Context Protocol) server for the
// GA drawing vectorizer.
//
// This package provides a JSON-RPC 2.0 server that turns scanned General
// Arrangement drawings into DXF polylines. It's designed to work with Claude
// and other MCP-compatible clients.
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
// Drawing input:
//   - ga_load: Load a drawing and get its size and format
//   - ga_detect_views: Find the side, top and body views on a full sheet
//   - ga_ocr_labels: Read caption words and map them to views
//
// Vectorizing:
//   - ga_classify_view: Trace, classify and simplify one view
//   - ga_export_dxf: Write one view as a DXF file
//   - ga_process_page: Run the whole sheet and write one DXF per view
//   - ga_preview: Render classified polylines over the drawing
//
// Stages on caller-supplied geometry:
//   - ga_simplify: Ramer-Douglas-Peucker on a point list
//   - ga_classify_contours: Apply the per-view role rules
//   - ga_serialize_dxf: Serialize polylines as DXF text
//
// # Configuration
//
// Defaults come from the GA_MCP_* environment (see package config). Tool
// arguments such as tolerance, scale and close_tolerance override them for a
// single call.
//
// # Image Caching
//
// Decoded drawings are cached by path and reused across tool calls. PDF input
// is decoded once to its page raster.
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
//	srv := server.New(config.Load())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
