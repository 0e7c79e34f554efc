package latentspace

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS enables the HUD overlay.
	ShowFPS bool
	// Debug enables per-frame stderr logging.
	Debug bool
}

// Run opens a resizable window and drives the engine until the window is
// closed or the engine is closed. The engine is closed on return.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "latentspace"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	e.ShowHUD = cfg.ShowFPS
	e.SetDebugMode(cfg.Debug)
	defer e.Close()

	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
