// Package web holds the browser assets compiled into the binary.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}
