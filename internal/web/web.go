// Package web embeds the HTML templates and static assets of the gallery UI
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template; names are the file base names
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// Static serves the contents of static/ from the binary
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static/ вшит при сборке, ошибки тут быть не может
		panic(err)
	}
	return http.FS(sub)
}
