package panel

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"
)

var (
	colorBackground = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	colorText       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colorOK         = color.RGBA{R: 80, G: 200, B: 120, A: 255}
	colorBad        = color.RGBA{R: 220, G: 70, B: 60, A: 255}
	colorBarFrame   = color.RGBA{R: 70, G: 70, B: 70, A: 255}
)

// panelRenderer renders the status widget: four text lines and a deviation
// bar that fills up as the smoothed gas value approaches the bad-air
// threshold.
type panelRenderer struct {
	panel *StatusWidget

	background *canvas.Rectangle
	tempText   *canvas.Text
	humText    *canvas.Text
	airText    *canvas.Text
	statusText *canvas.Text
	barFrame   *canvas.Rectangle
	bar        *canvas.Rectangle

	objects []fyne.CanvasObject
}

func newPanelRenderer(p *StatusWidget) *panelRenderer {
	r := &panelRenderer{
		panel:      p,
		background: canvas.NewRectangle(colorBackground),
		tempText:   canvas.NewText("", colorText),
		humText:    canvas.NewText("", colorText),
		airText:    canvas.NewText("", colorText),
		statusText: canvas.NewText("", colorText),
		barFrame:   canvas.NewRectangle(colorBarFrame),
		bar:        canvas.NewRectangle(colorOK),
	}

	r.tempText.TextSize = 16
	r.humText.TextSize = 16
	r.airText.TextSize = 16
	r.statusText.TextSize = 18
	r.statusText.TextStyle = fyne.TextStyle{Bold: true}

	r.objects = []fyne.CanvasObject{
		r.background,
		r.barFrame,
		r.bar,
		r.tempText,
		r.humText,
		r.airText,
		r.statusText,
	}

	return r
}

// MinSize returns the minimum size of the widget.
func (r *panelRenderer) MinSize() fyne.Size {
	return fyne.NewSize(260, 180)
}

// Layout arranges the widget components.
func (r *panelRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	const (
		margin     = float32(12)
		lineHeight = float32(28)
		barHeight  = float32(14)
	)

	y := margin
	for _, text := range []*canvas.Text{r.tempText, r.humText, r.airText, r.statusText} {
		text.Move(fyne.NewPos(margin, y))
		text.Resize(fyne.NewSize(size.Width-2*margin, lineHeight))
		y += lineHeight
	}

	barWidth := size.Width - 2*margin
	barY := size.Height - margin - barHeight
	r.barFrame.Move(fyne.NewPos(margin, barY))
	r.barFrame.Resize(fyne.NewSize(barWidth, barHeight))

	r.bar.Move(fyne.NewPos(margin, barY))
	r.bar.Resize(fyne.NewSize(r.barFill(barWidth), barHeight))
}

// Refresh updates the widget display from the latest reading.
func (r *panelRenderer) Refresh() {
	reading, ok := r.panel.snapshot()

	if !ok {
		// Startup: calibration has not finished yet
		r.tempText.Text = "Air Monitor"
		r.humText.Text = "Calibrating..."
		r.airText.Text = ""
		r.statusText.Text = ""
		r.statusText.Color = colorText
		r.bar.FillColor = colorOK
	} else if !reading.ClimateOK {
		r.tempText.Text = "DHT Error!"
		r.humText.Text = ""
		r.airText.Text = ""
		r.statusText.Text = ""
		r.statusText.Color = colorText
	} else {
		diff := reading.Deviation()
		r.tempText.Text = fmt.Sprintf("Temp: %.1f C", reading.Temperature)
		r.humText.Text = fmt.Sprintf("Humidity: %.1f %%", reading.Humidity)
		r.airText.Text = fmt.Sprintf("Air: %d (%+d)", reading.AirQuality, diff)

		if reading.BadAir(r.panel.cfg.Monitor.BadAirThreshold) {
			r.statusText.Text = "STATUS: BAD AIR"
			r.statusText.Color = colorBad
			r.bar.FillColor = colorBad
		} else {
			r.statusText.Text = "Status: OK"
			r.statusText.Color = colorOK
			r.bar.FillColor = colorOK
		}
	}

	size := r.panel.Size()
	if size.Width > 0 && size.Height > 0 {
		r.Layout(size)
	}

	canvas.Refresh(r.panel)
}

// barFill returns the filled width of the deviation bar: the fraction of the
// bad-air threshold the current deviation has reached, clamped to [0, 1].
func (r *panelRenderer) barFill(barWidth float32) float32 {
	reading, ok := r.panel.snapshot()
	if !ok || !reading.ClimateOK {
		return 0
	}

	threshold := r.panel.cfg.Monitor.BadAirThreshold
	if threshold <= 0 {
		return 0
	}

	frac := float32(reading.Deviation()) / float32(threshold)
	frac = math32.Max(0, math32.Min(1, frac))
	return frac * barWidth
}

// Objects returns the renderer's canvas objects.
func (r *panelRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up renderer resources.
func (r *panelRenderer) Destroy() {}
