// Command vrmaplay plays a VRMA clip on a VRM avatar.
//
// The selection comes from flags and an optional YAML settings file that is watched for
// changes. With -window, files dropped on the window select the clip (.vrma) or the model
// (anything else); Space toggles playback, R reimports the clip, P toggles the profiler,
// S saves the settings, and Escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Carmen-Shannon/oxy-vrma/common"
	"github.com/Carmen-Shannon/oxy-vrma/engine"
	"github.com/Carmen-Shannon/oxy-vrma/engine/animator"
	"github.com/Carmen-Shannon/oxy-vrma/engine/asset"
	"github.com/Carmen-Shannon/oxy-vrma/engine/scene"
	"github.com/Carmen-Shannon/oxy-vrma/engine/settings"
	"github.com/Carmen-Shannon/oxy-vrma/engine/window"
)

func main() {
	settingsPath := flag.String("settings", "", "YAML settings file, watched for changes")
	modelPath := flag.String("model", "", "avatar file (.vrm, .glb, .gltf)")
	vrmaPath := flag.String("vrma", "", "animation clip (.vrma)")
	tickRate := flag.Float64("tick-rate", 0, "animation ticks per second (default from settings, else 60)")
	useWindow := flag.Bool("window", false, "open a drop target window")
	profile := flag.Bool("profile", false, "log tick rate and memory statistics")
	flag.Parse()

	// ── Settings ────────────────────────────────────────────────────────
	s := settings.Default()
	if *settingsPath != "" {
		loaded, err := settings.ReadFile(*settingsPath)
		switch {
		case err == nil:
			s = loaded
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[Settings] %s does not exist yet, using defaults", *settingsPath)
		default:
			log.Fatalf("vrmaplay: %v", err)
		}
	}
	s.Model = common.Coalesce(*modelPath, s.Model)
	s.Vrma = common.Coalesce(*vrmaPath, s.Vrma)
	s.TickRate = common.Coalesce(*tickRate, s.TickRate)
	if err := s.Validate(); err != nil {
		log.Fatalf("vrmaplay: %v", err)
	}
	store := settings.NewStore(s)

	if *settingsPath != "" {
		if _, err := os.Stat(*settingsPath); errors.Is(err, os.ErrNotExist) {
			if err := store.Save(*settingsPath); err != nil {
				log.Fatalf("vrmaplay: %v", err)
			}
		}
		watcher, err := settings.NewWatcher(store, *settingsPath)
		if err != nil {
			log.Fatalf("vrmaplay: watch %s: %v", *settingsPath, err)
		}
		defer watcher.Close()
		go func() {
			for err := range watcher.Errors {
				log.Printf("[Settings] watch error: %v", err)
			}
		}()
	}

	// ── Assets + Stage ──────────────────────────────────────────────────
	assets := asset.NewServer()
	defer assets.Close()

	avatar := scene.NewCharacter("avatar", store, assets)
	stage := scene.NewStage("main", scene.WithCharacters(avatar))
	defer stage.Close()

	// ── Engine + Window ─────────────────────────────────────────────────
	options := []engine.EngineBuilderOption{
		engine.WithTickRate(store.TickRate()),
		engine.WithProfiling(*profile),
		engine.WithStage(0, stage),
	}

	var win window.Window
	if *useWindow {
		var err error
		win, err = window.NewWindow(window.WithTitle("vrmaplay: drop a .vrm or .vrma file"))
		if err != nil {
			log.Fatalf("vrmaplay: %v", err)
		}
		options = append(options, engine.WithWindow(win))
	}

	eng := engine.NewEngine(options...)
	profiling := *profile

	if win != nil {
		win.SetDropCallback(store.Drop)
		win.SetKeyDownCallback(func(key int) {
			switch key {
			case common.KeySpace:
				store.SetEnabled(!store.Enabled())
			case common.KeyR:
				store.RequestRegenerate()
			case common.KeyP:
				profiling = !profiling
				if profiling {
					eng.EnableProfiler()
				} else {
					eng.DisableProfiler()
				}
			case common.KeyS:
				if *settingsPath == "" {
					log.Printf("[Settings] no -settings file to save to")
					return
				}
				if err := store.Save(*settingsPath); err != nil {
					log.Printf("[Settings] %v", err)
				}
			}
		})
	}

	// ── Status ──────────────────────────────────────────────────────────
	var last string
	rate := store.TickRate()
	eng.SetTickCallback(func(float32) {
		if r := store.TickRate(); r != rate {
			rate = r
			eng.SetTickRate(r)
		}

		status := describe(avatar)
		if status == last {
			return
		}
		last = status
		log.Printf("[Animator] %s", status)
		if win != nil {
			win.SetTitle("vrmaplay: " + status)
		}
	})

	// ── Run ─────────────────────────────────────────────────────────────
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		eng.Quit()
	}()

	eng.Run()
}

// describe summarizes the character's model and animation state in one line.
func describe(c scene.Character) string {
	if c.ModelPath() == "" {
		return "no model selected"
	}
	if err := c.Err(); err != nil {
		return fmt.Sprintf("model %s failed: %v", filepath.Base(c.ModelPath()), err)
	}
	if c.Rig() == nil {
		return fmt.Sprintf("loading model %s", filepath.Base(c.ModelPath()))
	}

	a := c.Animator()
	switch a.State() {
	case animator.StateEmpty:
		return fmt.Sprintf("%s: no clip selected", filepath.Base(c.ModelPath()))
	case animator.StateLoading:
		if err := a.Err(); err != nil {
			return fmt.Sprintf("%s: clip failed: %v", filepath.Base(c.ModelPath()), err)
		}
		return fmt.Sprintf("%s: loading clip", filepath.Base(c.ModelPath()))
	default:
		clip := a.Clip()
		return fmt.Sprintf("%s: playing %q (%d tracks, %.2fs, load #%d)",
			filepath.Base(c.ModelPath()), clip.Name, len(clip.Tracks), clip.Duration, a.Loads())
	}
}
