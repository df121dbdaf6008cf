package models

import "image"

// Composition is the read-only join of placement and drawing state handed to export
type Composition struct {
	SessionID string       `json:"sessionId"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Layers    []PlacedItem `json:"layers"`
	// Drawing is a copy of the live drawing bitmap; nil before the first stroke
	Drawing image.Image `json:"-"`
}

// BackgroundColor returns the colour of a wallpaper background, if any
func (c Composition) BackgroundColor() string {
	for _, l := range c.Layers {
		if l.Category == CategoryBackground {
			return l.Color
		}
	}
	return ""
}
