package scope

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

var (
	gridColor      = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	labelColor     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	ecgColor       = color.RGBA{R: 0, G: 255, B: 255, A: 255} // Cyan
	peakColor      = color.RGBA{R: 255, G: 0, B: 0, A: 255}   // Red
	mwiColor       = color.RGBA{R: 0, G: 255, B: 0, A: 255}   // Green
	thresholdColor = color.RGBA{R: 255, G: 255, B: 0, A: 255} // Yellow
)

// plotArea is the pixel rectangle of one panel plus its value range.
type plotArea struct {
	x, y, w, h float32
	yMin, yMax float32
	window     int
	rate       int
}

func (p plotArea) point(idx int, v float32) fyne.Position {
	px := p.x + float32(idx)/float32(p.window)*p.w
	py := p.y + p.h - (v-p.yMin)/(p.yMax-p.yMin)*p.h
	return fyne.NewPos(px, py)
}

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	bg      *canvas.Rectangle
	objects []fyne.CanvasObject

	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	if r.lastSize != size {
		r.lastSize = size
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh rebuilds every canvas object from the current data.
func (r *scopeRenderer) Refresh() {
	s := r.scope
	s.mu.RLock()
	signal := s.signal
	mwi := s.mwi
	threshold := s.threshold
	peaks := s.peaks
	peakVals := s.peakVals
	bpm := s.bpm
	ecgMin, ecgMax := s.ecgMin, s.ecgMax
	mwiMin, mwiMax := s.mwiMin, s.mwiMax
	window := max(s.window, 1)
	s.mu.RUnlock()

	size := s.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.bg}

	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(30.0)
	gap := float32(30.0)

	plotWidth := size.Width - marginLeft - marginRight
	panelHeight := (size.Height - marginTop - marginBottom - gap) / 2
	rate := max(s.cfg.Signal.SampleRate, 1)

	top := plotArea{x: marginLeft, y: marginTop, w: plotWidth, h: panelHeight, yMin: ecgMin, yMax: ecgMax, window: window, rate: rate}
	bottom := plotArea{x: marginLeft, y: marginTop + panelHeight + gap, w: plotWidth, h: panelHeight, yMin: mwiMin, yMax: mwiMax, window: window, rate: rate}

	r.drawGrid(top, "ECG signal")
	r.drawGrid(bottom, "MWI & Threshold")

	r.drawTrace(top, signal, ecgColor, false)
	r.drawPeaks(top, peaks, peakVals)
	r.drawBPM(top, bpm)

	r.drawTrace(bottom, mwi, mwiColor, false)
	r.drawTrace(bottom, threshold, thresholdColor, true)
}

// drawGrid draws the oscilloscope-style grid with value and time labels.
func (r *scopeRenderer) drawGrid(p plotArea, title string) {
	numHLines := 4
	for i := range numHLines + 1 {
		y := p.y + float32(i)*p.h/float32(numHLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(p.x, y)
		line.Position2 = fyne.NewPos(p.x+p.w, y)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		value := p.yMax - float32(i)*(p.yMax-p.yMin)/float32(numHLines)
		text := canvas.NewText(formatValue(value), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(p.x-5, y-6))
		r.objects = append(r.objects, text)
	}

	numVLines := 10
	for i := range numVLines + 1 {
		x := p.x + float32(i)*p.w/float32(numVLines)
		line := canvas.NewLine(gridColor)
		line.Position1 = fyne.NewPos(x, p.y)
		line.Position2 = fyne.NewPos(x, p.y+p.h)
		line.StrokeWidth = 1
		r.objects = append(r.objects, line)

		seconds := float32(i) * float32(p.window) / float32(numVLines) / float32(p.rate)
		text := canvas.NewText(formatSeconds(seconds), labelColor)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, p.y+p.h+3))
		r.objects = append(r.objects, text)
	}

	label := canvas.NewText(title, labelColor)
	label.TextSize = 11
	label.Move(fyne.NewPos(p.x+5, p.y-16))
	r.objects = append(r.objects, label)
}

// drawTrace draws connected segments; dashed skips every other one.
func (r *scopeRenderer) drawTrace(p plotArea, t trace, c color.Color, dashed bool) {
	n := min(len(t.x), len(t.y))
	if n < 2 {
		return
	}

	prev := p.point(t.x[0], t.y[0])
	for i := 1; i < n; i++ {
		cur := p.point(t.x[i], t.y[i])
		if !dashed || i%2 == 0 {
			line := canvas.NewLine(c)
			line.Position1 = prev
			line.Position2 = cur
			line.StrokeWidth = 1.5
			r.objects = append(r.objects, line)
		}
		prev = cur
	}
}

// drawPeaks marks each R peak with a filled dot.
func (r *scopeRenderer) drawPeaks(p plotArea, peaks []int, values []float32) {
	const radius = 5
	for i, idx := range peaks {
		if i >= len(values) {
			break
		}
		pos := p.point(idx, values[i])
		dot := canvas.NewCircle(peakColor)
		dot.Position1 = fyne.NewPos(pos.X-radius, pos.Y-radius)
		dot.Position2 = fyne.NewPos(pos.X+radius, pos.Y+radius)
		r.objects = append(r.objects, dot)
	}
}

// drawBPM draws the heart rate in the top right corner.
func (r *scopeRenderer) drawBPM(p plotArea, bpm int) {
	text := canvas.NewText(formatBPM(bpm), ecgColor)
	text.TextSize = 24
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.Alignment = fyne.TextAlignTrailing
	text.Move(fyne.NewPos(p.x+p.w-10, p.y+5))
	r.objects = append(r.objects, text)
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {}

func formatValue(v float32) string {
	return fmt.Sprintf("%.0f", v)
}

func formatSeconds(s float32) string {
	return fmt.Sprintf("%.1fs", s)
}

func formatBPM(bpm int) string {
	if bpm <= 0 {
		return "- -"
	}
	return fmt.Sprintf("%d BPM", bpm)
}
