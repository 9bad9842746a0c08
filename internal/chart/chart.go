// Package chart renders indicator values as base64-encoded PNG images.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

var (
	purple = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	cyan   = color.RGBA{R: 23, G: 190, B: 207, A: 255}
)

// RSI draws the RSI series over the date axis with dashed reference lines at
// 70 (overbought) and 30 (oversold). Non-finite samples are left out of the
// drawn line; the series itself is not modified.
func RSI(bars []models.Bar, rsi []float64, ticker string) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Relative Strength Index (RSI) for %s", ticker)
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 02"}

	pts := make(plotter.XYs, 0, len(rsi))
	for i, v := range rsi {
		if i >= len(bars) || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(bars[i].Date.Unix()), Y: v})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("rsi line: %w", err)
	}
	line.Color = purple
	p.Add(line)
	p.Legend.Add("RSI", line)

	xmin, xmax := dateRange(bars)
	over, err := refLine(70, xmin, xmax, red)
	if err != nil {
		return "", err
	}
	under, err := refLine(30, xmin, xmax, green)
	if err != nil {
		return "", err
	}
	p.Add(over, under)
	p.Legend.Add("Overbought", over)
	p.Legend.Add("Oversold", under)
	p.Legend.Top = true

	return encode(p, 10*vg.Inch, 5*vg.Inch)
}

// Beta draws the beta value as a single bar. The y axis always starts at 0
// and leaves headroom above the value, floored at 2 so small betas do not
// produce a squeezed chart.
func Beta(beta float64) (string, error) {
	return singleBar("Beta", "Beta", beta, math.Max(beta+0.5, 2), blue)
}

// PERatios draws trailing and forward P/E as two bars.
func PERatios(trailing, forward float64) (string, error) {
	p := plot.New()
	p.Title.Text = "P/E Ratios"

	tb, err := plotter.NewBarChart(plotter.Values{trailing}, vg.Points(40))
	if err != nil {
		return "", fmt.Errorf("pe bars: %w", err)
	}
	tb.Color = orange
	fb, err := plotter.NewBarChart(plotter.Values{forward}, vg.Points(40))
	if err != nil {
		return "", fmt.Errorf("pe bars: %w", err)
	}
	fb.Color = cyan
	fb.XMin = 1

	p.Add(tb, fb)
	p.NominalX("Trailing P/E", "Forward P/E")
	p.Y.Min = 0
	p.Y.Max = math.Max(trailing, forward) + 10

	return encode(p, 5*vg.Inch, 5*vg.Inch)
}

// PriceToBook draws the P/B ratio as a single bar.
func PriceToBook(v float64) (string, error) {
	return singleBar("Price to Book (P/B) Ratio", "P/B Ratio", v, math.Max(v+10, 20), green)
}

func singleBar(title, label string, value, ymax float64, c color.Color) (string, error) {
	p := plot.New()
	p.Title.Text = title

	bars, err := plotter.NewBarChart(plotter.Values{value}, vg.Points(40))
	if err != nil {
		return "", fmt.Errorf("%s bar: %w", label, err)
	}
	bars.Color = c
	p.Add(bars)
	p.NominalX(label)
	p.Y.Min = 0
	p.Y.Max = ymax

	return encode(p, 5*vg.Inch, 5*vg.Inch)
}

// refLine builds a dashed horizontal line spanning [xmin, xmax].
func refLine(y, xmin, xmax float64, c color.Color) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
	if err != nil {
		return nil, fmt.Errorf("reference line: %w", err)
	}
	line.Color = c
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	return line, nil
}

func dateRange(bars []models.Bar) (xmin, xmax float64) {
	if len(bars) == 0 {
		return 0, 1
	}
	return float64(bars[0].Date.Unix()), float64(bars[len(bars)-1].Date.Unix())
}

func encode(p *plot.Plot, w, h vg.Length) (string, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return "", fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
