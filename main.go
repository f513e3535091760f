package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"ScoreViewer/internal/config"
	"ScoreViewer/internal/document"
	"ScoreViewer/internal/export"
	"ScoreViewer/internal/midi"
	remote "ScoreViewer/internal/net"
	"ScoreViewer/internal/prefs"
	"ScoreViewer/internal/ui"

	"fyne.io/fyne/v2/app"
	"github.com/sanity-io/litter"
)

// sheet is the size snapshots are rendered at for remote devices.
var sheet = export.Size{Width: 1024, Height: 768}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts := ui.Options{MidiPath: cfg.MidiPath}
	if cfg.ScorePath != "" {
		score, err := document.Open(cfg.ScorePath)
		if err != nil {
			log.Fatalf("Failed to open score: %v", err)
		}
		defer score.Close()
		opts.Score = score
		log.Printf("Opened %s with %d pages", cfg.ScorePath, score.Pages())
	}
	if cfg.MidiPath != "" {
		d, err := midi.DurationFile(cfg.MidiPath)
		switch {
		case errors.Is(err, midi.ErrEmpty):
			log.Printf("MIDI file %s has no events, playback disabled", cfg.MidiPath)
		case err != nil:
			log.Printf("Failed to read MIDI file: %v", err)
		default:
			opts.MidiDuration = d
			log.Printf("Loaded %s, %s long", cfg.MidiPath, d.Round(time.Second))
		}
	}
	if cfg.PrefsPath != "" {
		store, err := prefs.Open(cfg.PrefsPath)
		if err != nil {
			log.Printf("Preferences disabled: %v", err)
		} else {
			defer store.Close()
			opts.Prefs = store
		}
	}

	if cfg.RemotePort > 0 {
		opts.Status = "Remote input at " + remote.InputURL(remote.OutgoingIP(), cfg.RemotePort)
	}

	a := app.NewWithID("io.scoreviewer")
	viewer := ui.NewViewer(a, opts)

	if cfg.RemotePort > 0 {
		stop := startRemote(cfg, viewer)
		defer stop()
	}

	viewer.ShowAndRun()

	if cfg.Debug {
		log.Printf("[BOARD] final state %s", litter.Sdump(viewer.Board().Snapshot()))
	}
}

// startRemote serves the input hub and advertises it. The returned func
// withdraws the advertisement.
func startRemote(cfg config.Config, viewer *ui.Viewer) func() {
	hub := remote.NewHub(viewer.Dispatch, sheet)
	hub.OnConnect = func(id string) {
		viewer.SetStatus(fmt.Sprintf("Device %s connected (%d total)", id[:8], hub.Clients()))
	}
	viewer.OnChanged = hub.Broadcast

	mux := http.NewServeMux()
	mux.Handle(remote.InputPath, hub)
	addr := fmt.Sprintf(":%d", cfg.RemotePort)
	go func() {
		log.Printf("[HUB] listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("[HUB] server stopped: %v", err)
			viewer.SetStatus("Remote input unavailable")
		}
	}()

	if !cfg.Advertise {
		return func() {}
	}
	server, err := remote.Advertise(cfg.RemotePort)
	if err != nil {
		log.Printf("[HUB] %v", err)
		return func() {}
	}
	log.Printf("[HUB] advertising on mDNS")
	return func() {
		if err := server.Shutdown(); err != nil {
			log.Printf("[HUB] mDNS shutdown: %v", err)
		}
	}
}
