// Command physics-demo shows the transform sync pipeline driving a
// kinematic player against a static obstacle, with debug lines and
// ImGui inspection panels.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "", "path to a demo YAML config")
	flag.Parse()

	cfg, err := LoadConfigFile(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	game, cleanup, err := initializeGame(cfg)
	if err != nil {
		log.Fatalf("initialize: %v", err)
	}
	defer cleanup()

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle("physync demo")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("run: %v", err)
	}
}
