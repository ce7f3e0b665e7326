// Copyright (c) 2025-2026 PhishGuard
// Licensed under MIT — See LICENSE for terms.

// Package templates holds the server-rendered HTML pages. The API is
// JSON throughout; the only page served here is the shield interstitial
// the browser extension redirects blocked navigations to.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var pages embed.FS

// Load parses the embedded pages. Called once at startup; a malformed
// template is a programming error, not a runtime condition.
func Load() *template.Template {
	return template.Must(template.New("").ParseFS(pages, "*.html"))
}
