package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/gnss_tracker/internal/config"
	"github.com/relabs-tech/gnss_tracker/internal/display"
	"github.com/relabs-tech/gnss_tracker/internal/env"
	"github.com/relabs-tech/gnss_tracker/internal/gps"
	"github.com/relabs-tech/gnss_tracker/internal/panel"
)

const (
	oledWidth, oledHeight = 128, 64
	splashDuration        = 3 * time.Second
)

// Window is a desktop output. Run blocks on the main goroutine until the
// window is closed or Close is called.
type Window interface {
	display.Flusher
	Run() error
	Close()
}

// WindowOpener creates the window for the window driver.
type WindowOpener func(w, h int, title string) Window

// panelOutput is the drawing stack for the configured driver and renderer.
type panelOutput struct {
	surface display.Surface
	fonts   display.Fonts
	window  Window // set for the window driver
	close   func() error
}

func openPanel(cfg *config.Config, openWindow WindowOpener, logger *log.Logger) (*panelOutput, error) {
	out := &panelOutput{close: func() error { return nil }}

	// the canvas rotates into the physical frame; tinyfont leaves rotation
	// to the driver and hands over logical frames
	frameW, frameH := cfg.DisplayWidth, cfg.DisplayHeight
	if cfg.DisplayRenderer == config.RendererTinyfont {
		frameW, frameH = cfg.DisplayRotation.Logical(frameW, frameH)
	}

	var flusher display.Flusher
	switch cfg.DisplayDriver {
	case config.DriverWindow:
		if openWindow == nil {
			return nil, fmt.Errorf("display driver %q is not available in this program", cfg.DisplayDriver)
		}
		out.window = openWindow(frameW, frameH, cfg.DisplayTitle)
		flusher = out.window
	case config.DriverSSD1306:
		oled, err := panel.OpenOLED(oledWidth, oledHeight)
		if err != nil {
			return nil, err
		}
		flusher = oled
		out.close = oled.Close
	case config.DriverHeadless:
	default:
		return nil, fmt.Errorf("unknown display driver %q", cfg.DisplayDriver)
	}

	switch cfg.DisplayRenderer {
	case config.RendererTinyfont:
		out.surface = panel.NewTinySurface(panel.NewFramebuffer(frameW, frameH, flusher))
		out.fonts = panel.TinyFonts()
	default:
		out.surface = display.NewCanvas(frameW, frameH, cfg.DisplayRotation, flusher)
		out.fonts = display.DefaultFonts()
	}

	w, h := out.surface.Size()
	logger.Printf("%s panel %dx%d via %s", cfg.DisplayRenderer, w, h, cfg.DisplayDriver)
	return out, nil
}

// newBuilder prepares the panel layout from the configuration and the
// optional layout profile.
func newBuilder(cfg *config.Config, fonts display.Fonts) (*display.Builder, error) {
	b, err := display.NewBuilder(fonts, cfg.DisplayFields...)
	if err != nil {
		return nil, err
	}
	b.Title = cfg.DisplayTitle

	if cfg.LayoutFile != "" {
		l, err := config.LoadLayout(cfg.LayoutFile)
		if err != nil {
			return nil, err
		}
		if err := l.Apply(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// snapshotter yields the readings for one panel update.
type snapshotter interface {
	Snapshot() (env.Snapshot, *gps.Fix, error)
}

// startPanel shows the splash (if configured) and installs the data panel.
func startPanel(ctx context.Context, cfg *config.Config, d *display.Display, b *display.Builder) error {
	if cfg.DisplaySplash != "" {
		loader := panel.FileLoader{Dir: cfg.ResourceDir}
		if err := d.ShowSplash(b, loader, cfg.DisplaySplash); err == nil {
			select {
			case <-ctx.Done():
			case <-time.After(splashDuration):
			}
		}
	}
	if err := d.Load(b); err != nil {
		return fmt.Errorf("panel layout: %w", err)
	}
	return nil
}

// updateLoop applies one snapshot per tick until ctx is done. All panel
// updates happen on this goroutine.
func updateLoop(ctx context.Context, d *display.Display, src snapshotter, mirror *Mirror, every time.Duration, logger *log.Logger) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Println("starting update loop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s, fix, err := src.Snapshot()
		if err != nil {
			logger.Printf("gps: %v", err)
		}
		err = d.Update(s, fix)
		if err != nil {
			logger.Printf("update: %v", err)
		}
		// a failed commit still changed the fields; only a missing panel has nothing to mirror
		if errors.Is(err, display.ErrNoPanel) {
			continue
		}
		if mirror != nil {
			mirror.Publish(d.Screen().Texts())
		}
	}
}

// runWithPanel runs fn until SIGINT/SIGTERM. With a window, fn moves to a
// goroutine and the window owns the main goroutine until either side ends.
func runWithPanel(out *panelOutput, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if out.window == nil {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		err := fn(ctx)
		out.window.Close()
		errc <- err
	}()
	go func() {
		<-ctx.Done()
		out.window.Close()
	}()

	werr := out.window.Run()
	cancel()
	if err := <-errc; err != nil {
		return err
	}
	return werr
}

func startMirror(port int, logger *log.Logger) *Mirror {
	if port <= 0 {
		return nil
	}
	mirror := NewMirror(logger)
	go func() {
		if err := ServeMirror(port, mirror, logger); err != nil {
			logger.Printf("web server stopped: %v", err)
		}
	}()
	return mirror
}

// RunDisplay drives the panel from the MQTT topics of the producers.
// openWindow may be nil when the window driver is not wanted.
func RunDisplay(openWindow WindowOpener) error {
	cfg := config.Get()
	logger := log.New(os.Stderr, "display: ", log.LstdFlags)

	out, err := openPanel(cfg, openWindow, logger)
	if err != nil {
		return err
	}
	defer out.close()

	b, err := newBuilder(cfg, out.fonts)
	if err != nil {
		return err
	}
	d := display.New(out.surface, logger)

	return runWithPanel(out, func(ctx context.Context) error {
		if err := startPanel(ctx, cfg, d, b); err != nil {
			return err
		}

		client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)

		collector := &Collector{}
		if err := collector.Subscribe(client, topicsFrom(cfg), logger); err != nil {
			return err
		}

		mirror := startMirror(cfg.WebServerPort, logger)
		every := time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond
		return updateLoop(ctx, d, collector, mirror, every, logger)
	})
}
