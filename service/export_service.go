package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"

	"avatar-studio/models"
	"avatar-studio/templates"
)

// ErrNoChrome is returned when no Chrome/Chromium executable can be found
var ErrNoChrome = errors.New("chrome executable not found")

const (
	exportTimeout  = 30 * time.Second
	maxExportScale = 4
)

// ExportOptions tune one snapshot
type ExportOptions struct {
	// Scale multiplies the canvas size; values <= 0 use 1
	Scale float64
	// Background is an optional #rrggbb colour the snapshot is flattened onto
	Background string
}

// ExportService renders compositions to PNG using a headless browser
type ExportService struct {
	baseURL    string
	chromePath string
}

// NewExportService creates an ExportService. baseURL must reach this server
// from the browser; chromePath may be empty to auto-detect.
func NewExportService(baseURL, chromePath string) *ExportService {
	return &ExportService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
	}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// RenderHTML renders the placement layers of a composition as the page that is screenshotted.
// The drawing layer is left out; it is composited from its bitmap.
func (s *ExportService) RenderHTML(c models.Composition) (string, error) {
	data := templates.Composition{
		SessionID: c.SessionID,
		Width:     c.Width,
		Height:    c.Height,
	}
	for _, l := range c.Layers {
		switch l.Category {
		case models.CategoryDrawing:
			continue
		case models.CategoryBackground:
			data.Layers = append(data.Layers, templates.Layer{
				Name:       l.Name,
				Z:          l.Z,
				Fill:       true,
				Background: template.CSS(l.Color),
			})
		default:
			data.Layers = append(data.Layers, templates.Layer{
				Name: l.Name,
				Src:  fmt.Sprintf("%s/catalog/items/%s/image", s.baseURL, l.ID),
				X:    l.X,
				Y:    l.Y,
				W:    l.Width,
				H:    l.Height,
				Z:    l.Z,
			})
		}
	}

	var buf bytes.Buffer
	if err := templates.RenderComposition(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Snapshot screenshots the session render page and composites the drawing on top
func (s *ExportService) Snapshot(ctx context.Context, c models.Composition, opts ExportOptions) ([]byte, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("cannot export an empty canvas (%vx%v)", c.Width, c.Height)
	}

	chromePath := detectChromePath(s.chromePath)
	if chromePath == "" {
		return nil, ErrNoChrome
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	scale = math.Min(scale, maxExportScale)

	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/sessions/%s/render", s.baseURL, c.SessionID)
	log.Printf("📸 Snapshot: session=%s size=%vx%v scale=%v", c.SessionID, c.Width, c.Height, scale)

	var shot []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(int64(math.Ceil(c.Width)), int64(math.Ceil(c.Height)), chromedp.EmulateScale(scale)),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 0, G: 0, B: 0, A: 0}),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("#stage", chromedp.ByQuery),
		// Wait for every layer image to load or fail
		chromedp.Evaluate(`
			Promise.all(Array.from(document.querySelectorAll('#stage img')).map(img => {
				return new Promise((resolve) => {
					if (img.complete) { resolve(); return; }
					const timeout = setTimeout(() => resolve(), 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				});
			}));
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams { return p.WithAwaitPromise(true) }),
		chromedp.Screenshot("#stage", &shot, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture snapshot: %w", err)
	}

	out, err := Composite(shot, c.Drawing, opts.Background)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ Snapshot generated: session=%s bytes=%d", c.SessionID, len(out))
	return out, nil
}

// Composite overlays the drawing bitmap on the placement screenshot, scaling
// it to the screenshot size, and optionally flattens onto a solid colour
func Composite(base []byte, drawing image.Image, background string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(base))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	b := img.Bounds()
	out := imaging.Clone(img)

	if drawing != nil && !drawing.Bounds().Empty() {
		layer := drawing
		if layer.Bounds().Size() != b.Size() {
			layer = imaging.Resize(drawing, b.Dx(), b.Dy(), imaging.Lanczos)
		}
		out = imaging.Overlay(out, layer, image.Pt(0, 0), 1.0)
	}

	if background != "" {
		bg, err := parseHexColor(background)
		if err != nil {
			return nil, err
		}
		out = imaging.Overlay(imaging.New(b.Dx(), b.Dy(), bg), out, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R, c.G, c.B = c.R*17, c.G*17, c.B*17
	default:
		err = fmt.Errorf("expected #rgb or #rrggbb")
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background colour %q: %w", s, err)
	}
	return c, nil
}
