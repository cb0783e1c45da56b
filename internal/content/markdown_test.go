// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	got := string(RenderMarkdown("# Tiêu đề\n\nĐoạn **đậm** và [liên kết](https://example.com)."))

	if !strings.Contains(got, "<h1") {
		t.Errorf("heading not rendered: %s", got)
	}
	if !strings.Contains(got, "<strong>đậm</strong>") {
		t.Errorf("bold not rendered: %s", got)
	}
	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("link not rendered: %s", got)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	got := string(RenderMarkdown("hello <script>alert(1)</script> world"))
	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived sanitization: %s", got)
	}
	if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
		t.Errorf("surrounding text lost: %s", got)
	}
}

func TestRenderMarkdownTables(t *testing.T) {
	src := "| A | B |\n|---|---|\n| 1 | 2 |"
	got := string(RenderMarkdown(src))
	if !strings.Contains(got, "<table") {
		t.Errorf("GFM table not rendered: %s", got)
	}
}

func TestRenderMarkdownHardWraps(t *testing.T) {
	got := string(RenderMarkdown("dòng một\ndòng hai"))
	if !strings.Contains(got, "<br") {
		t.Errorf("single newline should become a line break: %s", got)
	}
}

func TestSanitizeHTML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		keep    string
		dropped string
	}{
		{"script", `<p>ok</p><script>bad()</script>`, "<p>ok</p>", "<script"},
		{"event handler", `<a href="/x" onclick="bad()">x</a>`, "x", "onclick"},
		{"javascript url", `<a href="javascript:bad()">x</a>`, "x", "javascript:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeHTML(tt.input)
			if !strings.Contains(got, tt.keep) {
				t.Errorf("expected %q to survive, got %q", tt.keep, got)
			}
			if strings.Contains(got, tt.dropped) {
				t.Errorf("expected %q to be stripped, got %q", tt.dropped, got)
			}
		})
	}
}
