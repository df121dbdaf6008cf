// Package drawing holds the free-hand overlay bitmap and its undo history.
package drawing

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"avatar-studio/models"
)

// Stroke is one completed pen or eraser gesture. Points are normalized to the
// canvas; Width is a fraction of the canvas width.
type Stroke struct {
	Points []models.Point `json:"points"`
	Width  float64        `json:"width"`
	Color  string         `json:"color"`
	Eraser bool           `json:"eraser"`
}

const (
	defaultColor = "#111827"
	minWidthPx   = 1.0
)

// Layer is the live drawing bitmap at device resolution
type Layer struct {
	img *image.NRGBA
}

// NewLayer creates a transparent layer; sizes below one pixel are raised to one
func NewLayer(width, height int) *Layer {
	return &Layer{img: image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))}
}

func (l *Layer) Bounds() image.Rectangle { return l.img.Bounds() }

// Image returns the live bitmap; callers must not modify it
func (l *Layer) Image() *image.NRGBA { return l.img }

// Apply rasterizes a stroke onto the layer
func (l *Layer) Apply(s Stroke) error {
	if len(s.Points) == 0 {
		return nil
	}
	mark, err := l.rasterize(s)
	if err != nil {
		return err
	}
	if s.Eraser {
		draw.DrawMask(l.img, l.img.Bounds(), image.Transparent, image.Point{}, mark, image.Point{}, draw.Src)
		return nil
	}
	draw.Draw(l.img, l.img.Bounds(), mark, image.Point{}, draw.Over)
	return nil
}

// rasterize renders the stroke path alone on a transparent canvas
func (l *Layer) rasterize(s Stroke) (image.Image, error) {
	b := l.img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()

	color := s.Color
	if color == "" || s.Eraser {
		color = defaultColor
	}
	dc.SetHexColor(color)
	width := max(s.Width*w, minWidthPx)

	if single(s.Points) {
		p := s.Points[0]
		dc.DrawCircle(p.X*w, p.Y*h, width/2)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("error filling stroke dot: %w", err)
		}
		return dc.Image(), nil
	}

	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(s.Points[0].X*w, s.Points[0].Y*h)
	for _, p := range s.Points[1:] {
		dc.LineTo(p.X*w, p.Y*h)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("error stroking path: %w", err)
	}
	return dc.Image(), nil
}

// Encode returns the layer as PNG bytes
func (l *Layer) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, l.img); err != nil {
		return nil, fmt.Errorf("error encoding drawing layer: %w", err)
	}
	return buf.Bytes(), nil
}

// Load replaces the layer content with a PNG snapshot. A snapshot taken at
// another resolution is rescaled to the layer and resized reports true.
func (l *Layer) Load(snapshot []byte) (resized bool, err error) {
	src, err := png.Decode(bytes.NewReader(snapshot))
	if err != nil {
		return false, fmt.Errorf("error decoding drawing snapshot: %w", err)
	}
	b := l.img.Bounds()
	if src.Bounds().Size() != b.Size() {
		l.img = imaging.Resize(src, b.Dx(), b.Dy(), imaging.Lanczos)
		return true, nil
	}
	l.img = imaging.Clone(src)
	return false, nil
}

func single(points []models.Point) bool {
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}
