// Package templates holds the HTML pages rendered server-side.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed *.html
var files embed.FS

var composition = template.Must(template.ParseFS(files, "composition.html"))

// Layer is one positioned element of the composition page
type Layer struct {
	Name string
	Src  string
	X, Y float64
	W, H float64
	Z    int
	// Fill layers cover the stage with a CSS background instead of an image
	Fill       bool
	Background template.CSS
}

// Composition is the data of the composition page
type Composition struct {
	SessionID string
	Width     float64
	Height    float64
	Layers    []Layer
}

// RenderComposition writes the composition page
func RenderComposition(w io.Writer, data Composition) error {
	if err := composition.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
