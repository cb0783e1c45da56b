// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content converts stored Markdown into sanitized HTML for the
// public site.
package content

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlSanitizer strips dangerous elements (scripts, event handlers)
// while keeping the safe user-generated-content tag set.
var htmlSanitizer = bluemonday.UGCPolicy()

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown converts Markdown source to sanitized HTML.
// Conversion failures degrade to the escaped source text so a bad
// article never breaks a page.
func RenderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source)) // #nosec G203
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())) // #nosec G203
}

// SanitizeHTML strips unsafe markup from raw HTML input.
func SanitizeHTML(source string) string {
	return htmlSanitizer.Sanitize(source)
}
