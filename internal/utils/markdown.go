// internal/utils/markdown.go
package utils

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Item descriptions are user supplied, so raw HTML is left out of the output
// (the renderer's default).
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
)

// RenderMarkdown falls back to the source text when conversion fails.
func RenderMarkdown(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return source
	}
	return buf.String()
}
