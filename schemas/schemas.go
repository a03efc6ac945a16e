// Package schemas holds the JSON Schemas for API request bodies.
package schemas

import "embed"

// Schema file names
const (
	ExtractRequest = "extract_request.schema.json"
	AnalyzeRequest = "analyze_request.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
