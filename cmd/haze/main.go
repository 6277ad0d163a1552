// Command haze runs the playout engine standalone, with no TUI or web
// surface attached — both are out of scope per spec.md §1. It loads
// configuration, discovers playlists, starts the engine, and runs until
// SIGINT/SIGTERM.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/haze-fm/haze/internal/config"
	"github.com/haze-fm/haze/internal/engine"
)

var configPath = flag.String("config", "config.yaml", "Path to configuration file")

// logObserver is the minimal engine.Observer this standalone entrypoint
// registers so operators running without the TUI/web collaborators still
// see track and state changes on stderr.
type logObserver struct {
	e *engine.Engine
}

func (o logObserver) NotifyTrackChange() {
	log.Printf("track changed: playlist=%s track=%s", o.e.ActivePlaylistName(), o.e.CurrentTrack().Path)
}

func (o logObserver) NotifyStateChange() {
	log.Printf("state changed: state=%s shuffle=%v pending=%q", o.e.State(), o.e.Shuffle(), o.e.PendingPlaylistName())
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	eng := engine.New(cfg)
	eng.AddObserver(logObserver{e: eng})

	if err := eng.ReloadPlaylists(); err != nil {
		log.Fatalf("failed to discover playlists: %v", err)
	}

	if err := eng.Start(); err != nil {
		log.Fatalf("failed to start engine: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	eng.Stop()
}
