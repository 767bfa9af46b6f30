// Package app runs the fur visualizer: it loads the figure, grows the
// fur, listens to the track and draws frames until asked to quit.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/hallucination/internal/audio"
	"github.com/Faultbox/hallucination/internal/config"
	"github.com/Faultbox/hallucination/internal/controller"
	"github.com/Faultbox/hallucination/internal/engine/input"
	"github.com/Faultbox/hallucination/internal/engine/model"
	"github.com/Faultbox/hallucination/internal/engine/renderer"
	"github.com/Faultbox/hallucination/internal/engine/screenshot"
	"github.com/Faultbox/hallucination/internal/engine/window"
	"github.com/Faultbox/hallucination/internal/fur"
	"github.com/Faultbox/hallucination/internal/logger"
	"github.com/Faultbox/hallucination/internal/visualizer"
)

const windowTitle = "Hallucination"

// App is the main application instance.
type App struct {
	cfg *config.Config
	log *zap.Logger

	scene      *Scene
	fur        *fur.Fur
	engine     *visualizer.Engine
	palette    visualizer.Palette
	controller *controller.Controller

	proc   *audio.Processor
	player *audio.Player

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	shots    *screenshot.Capture

	grown     bool
	exhausted bool
	lastErr   string
}

// New loads the scene and opens the window. Everything not needing a GL
// context is set up first so bad input fails before a window appears.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("app")}

	mode, err := visualizer.ParseMode(cfg.Visual.Mode)
	if err != nil {
		return nil, err
	}
	if a.palette, err = visualizer.NewPalette(cfg.Visual.HairTint); err != nil {
		return nil, err
	}
	if a.scene, err = LoadScene(cfg.Models); err != nil {
		return nil, err
	}
	if a.proc, err = audio.NewProcessor(processorOptions(cfg.Audio)); err != nil {
		return nil, err
	}

	if a.shots, err = screenshot.New(cfg.Screenshot.Dir, "hallucination", cfg.Screenshot.Format); err != nil {
		return nil, err
	}

	a.fur = newFur(cfg.Fur)
	a.engine = visualizer.NewEngine(a.proc, visualizer.Options{
		ScanInterval:     cfg.Visual.ScanInterval,
		DecayRatio:       cfg.Visual.DecayRatio,
		FlashProbability: cfg.Visual.FlashProbability,
	})

	a.controller = controller.New(mode, frameRate(cfg.Graphics))
	cam := a.controller.Camera
	cam.FOV = cfg.Graphics.FOV
	cam.Near = cfg.Graphics.ZNear
	cam.Far = cfg.Graphics.ZFar

	a.window, err = window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: w, Height: h}, renderer.DefaultLighting())
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	for _, m := range a.scene.Meshes {
		a.renderer.AddMesh(m)
	}
	a.renderer.SetHairBase(hostColor(cfg.Models.HairHost))

	a.input = input.New()

	if a.player, err = startAudio(cfg.Audio, a.proc); err != nil {
		// Visuals still work without sound.
		a.log.Warn("audio disabled", zap.Error(err))
	}

	a.log.Info("initialized",
		zap.Stringer("mode", mode),
		zap.Int("hairs", cfg.Fur.Count),
	)
	return a, nil
}

func newFur(cfg config.FurConfig) *fur.Fur {
	opts := fur.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		MinSeparation: cfg.MinSeparation,
		MaxAttempts:   cfg.MaxAttempts,
	}
	return fur.New(fur.NewSampler(fur.NewRand(cfg.Seed), opts))
}

func frameRate(g config.GraphicsConfig) int {
	if g.FPSLimit > 0 {
		return g.FPSLimit
	}
	return 60
}

func hostColor(host string) [3]float32 {
	switch host {
	case "body":
		return model.SkinColor
	case "jeans":
		return model.JeansColor
	case "shoes":
		return model.ShoesColor
	}
	return model.JacketColor
}

// grow places the fur. Running out of room is logged and the hairs
// placed so far are kept.
func (a *App) grow() {
	start := time.Now()
	err := a.fur.GenerateRandomHairs(a.scene.Host, a.cfg.Fur.Count)
	stats := a.fur.LastStats()
	fields := []zap.Field{
		zap.Int("placed", stats.Placed),
		zap.Int("attempts", stats.Attempts),
		zap.Int("rejections", stats.Rejections),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		a.exhausted = true
		a.log.Warn("fur incomplete", append(fields, zap.Error(err))...)
	} else {
		a.log.Info("fur grown", fields...)
	}
	a.engine.Reposition(a.fur)
	a.grown = true
}

// regrow regenerates the fur if its size drifted from the configured
// count. A collection that ran out of room stays as it is.
func (a *App) regrow() {
	if a.exhausted {
		return
	}
	replaced, err := a.fur.Reposition(a.scene.Host, a.cfg.Fur.Count)
	if !replaced {
		return
	}
	if err != nil {
		a.exhausted = true
		a.log.Warn("fur incomplete after regrow", zap.Error(err))
	}
	a.engine.Reposition(a.fur)
}

// frame illuminates the hairs for time t. A failing frame is skipped;
// the same failure is logged only once.
func (a *App) frame(t time.Duration) {
	err := a.engine.Draw(a.fur, a.controller.Mode(), t)
	if err == nil {
		a.lastErr = ""
		return
	}
	if msg := err.Error(); msg != a.lastErr {
		a.log.Warn("frame skipped", zap.Error(err))
		a.lastErr = msg
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.Save(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Run starts the main loop and returns when the user quits.
func (a *App) Run() error {
	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start

	var minFrame time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting main loop")

	for !a.controller.ShouldQuit() {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			break
		}
		winW, winH := a.window.Size()
		if a.input.Apply(a.controller, winW, winH) {
			a.renderer.Resize(a.window.DrawableSize())
		}
		a.controller.Update()

		if !a.grown {
			a.grow()
		} else {
			a.regrow()
		}
		a.frame(now.Sub(start))

		w, h := a.window.DrawableSize()
		m := a.controller.ComputeMatrices(w, h)
		a.renderer.UpdateHairs(a.fur.Hairs, a.palette)
		a.renderer.Begin()
		a.renderer.Draw(renderer.Frame{
			Projection: m.Projection,
			View:       m.View,
			Model:      m.Model,
			LightsOn:   a.controller.LightsOn(),
		})
		if a.controller.TakeScreenshot() {
			a.screenshot()
		}
		a.renderer.End()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			bpm, conf := a.proc.Tempo()
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Float64("bpm", bpm),
				zap.Float64("tempo_confidence", conf),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}

	a.log.Info("main loop stopped")
	return nil
}

// Close releases audio, GL and window resources.
func (a *App) Close() {
	a.log.Info("closing")
	if a.player != nil {
		a.player.Stop()
		a.player.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
