// Package web contiene las plantillas HTML embebidas en el binario.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var files embed.FS

// Templates devuelve el sistema de archivos con las plantillas (raíz = templates/).
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
