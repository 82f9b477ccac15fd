package server

import (
	"fmt"
	"html/template"
	"path/filepath"
	"slices"
)

var pageFuncs = template.FuncMap{
	// contains lets forms flag the fields a submission left empty.
	"contains": func(list []string, value string) bool {
		return slices.Contains(list, value)
	},
}

// loadTemplates parses every page and shared partial in dir. Pages are
// looked up by file name.
func loadTemplates(dir string) (*template.Template, error) {
	pattern := filepath.Join(dir, "*.html")
	tmpl, err := template.New("").Funcs(pageFuncs).ParseGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", pattern, err)
	}
	return tmpl, nil
}
