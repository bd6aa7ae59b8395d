package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	chartW = 900
	chartH = 500

	marginLeft   = 70.0
	marginRight  = 40.0
	marginTop    = 60.0
	marginBottom = 70.0
)

var (
	colBackground = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colAxis       = color.NRGBA{R: 0x33, G: 0x3A, B: 0x45, A: 0xFF}
	colGrid       = color.NRGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	colText       = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF}
)

// frame is a chart canvas with a fixed plot rectangle and linear value
// mapping. All chart renderers draw through one of these.
type frame struct {
	dc     *gg.Context
	w, h   int
	xmin   float64
	xmax   float64
	ymin   float64
	ymax   float64
	hasMap bool
}

func (r *Renderer) newFrame(w, h int, title string) *frame {
	dc := gg.NewContext(w, h)
	dc.SetColor(colBackground)
	dc.Clear()

	f := &frame{dc: dc, w: w, h: h}
	dc.SetFontFace(r.face(15))
	dc.SetColor(colText)
	dc.DrawStringAnchored(title, float64(w)/2, marginTop/2, 0.5, 0.5)
	return f
}

// face returns the renderer's font scaled to the given point size.
func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (f *frame) setScale(xmin, xmax, ymin, ymax float64) {
	if xmax == xmin {
		xmax = xmin + 1
	}
	if ymax == ymin {
		ymax = ymin + 1
	}
	f.xmin, f.xmax, f.ymin, f.ymax = xmin, xmax, ymin, ymax
	f.hasMap = true
}

func (f *frame) px(x float64) float64 {
	return marginLeft + (x-f.xmin)/(f.xmax-f.xmin)*(float64(f.w)-marginLeft-marginRight)
}

func (f *frame) py(y float64) float64 {
	return float64(f.h) - marginBottom - (y-f.ymin)/(f.ymax-f.ymin)*(float64(f.h)-marginTop-marginBottom)
}

func (f *frame) drawAxes() {
	dc := f.dc
	dc.SetColor(colAxis)
	dc.SetLineWidth(1.2)
	// x axis
	dc.DrawLine(marginLeft, float64(f.h)-marginBottom, float64(f.w)-marginRight, float64(f.h)-marginBottom)
	// y axis
	dc.DrawLine(marginLeft, marginTop, marginLeft, float64(f.h)-marginBottom)
	dc.Stroke()
}

// drawYTicks draws n evenly spaced ticks with horizontal grid lines.
func (f *frame) drawYTicks(n int, format func(float64) string) {
	dc := f.dc
	for i := 0; i <= n; i++ {
		v := f.ymin + (f.ymax-f.ymin)*float64(i)/float64(n)
		y := f.py(v)
		dc.SetColor(colGrid)
		dc.SetLineWidth(0.8)
		dc.DrawLine(marginLeft, y, float64(f.w)-marginRight, y)
		dc.Stroke()
		dc.SetColor(colText)
		dc.DrawStringAnchored(format(v), marginLeft-8, y, 1, 0.5)
	}
}

func (f *frame) drawXLabel(x float64, label string, rotated bool) {
	dc := f.dc
	dc.SetColor(colText)
	y := float64(f.h) - marginBottom + 10
	if rotated {
		dc.Push()
		dc.RotateAbout(-math.Pi/4, x, y)
		dc.DrawStringAnchored(label, x, y, 1, 0.5)
		dc.Pop()
		return
	}
	dc.DrawStringAnchored(label, x, y+6, 0.5, 0.5)
}

func formatTick(v float64) string {
	if math.Abs(v) >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func (f *frame) encode(chartType string) (*Artifact, error) {
	var buf bytes.Buffer
	if err := f.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode %s png: %w", chartType, err)
	}
	return &Artifact{Type: chartType, PNG: buf.Bytes(), Width: f.w, Height: f.h}, nil
}
