// Package web holds the server-rendered storefront pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page and partial. Each page is registered under its
// file name, e.g. "shop.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"money":    money,
		"selected": selected,
	}).ParseFS(files, "templates/*.html")
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func selected(a, b string) template.HTMLAttr {
	if a == b {
		return "selected"
	}
	return ""
}
