package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/itohio/goairmon/pkg/config"
	"github.com/itohio/goairmon/pkg/monitor"
	"github.com/itohio/goairmon/pkg/panel"
)

// display wraps the optional Fyne status window.
type display struct {
	application  fyne.App
	window       fyne.Window
	statusWidget *panel.StatusWidget
}

// newDisplay initializes the graphical display. Fyne aborts with a panic
// rather than returning an error when no graphics environment is available,
// so the panic is recovered and reported as an error; the caller then falls
// back to console-only operation for the rest of the run.
func newDisplay(cfg *config.Config) (d *display, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("display init failed: %v", r)
		}
	}()

	application := app.NewWithID("com.itohio.goairmon")

	window := application.NewWindow("Air Monitor")
	window.Resize(fyne.NewSize(320, 240))
	window.CenterOnScreen()

	statusWidget := panel.New(cfg)
	window.SetContent(statusWidget)

	return &display{
		application:  application,
		window:       window,
		statusWidget: statusWidget,
	}, nil
}

// run shows the window and blocks until it is closed or the context is
// cancelled. The poll loop runs alongside the UI.
func (d *display) run(ctx context.Context, mon *monitor.Monitor) {
	// Widget updates must happen on the main Fyne thread
	mon.OnUpdate(func(r monitor.Reading) {
		fyne.Do(func() {
			d.statusWidget.UpdateReading(r)
		})
	})

	go mon.Run(ctx)
	go func() {
		<-ctx.Done()
		fyne.Do(d.application.Quit)
	}()

	d.window.ShowAndRun()
}
