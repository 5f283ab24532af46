package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ballista/internal/config"
	"ballista/internal/game"
)

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	tuningPath := flag.String("tuning", "tuning.json", "gameplay tuning file")
	rangePath := flag.String("range", "assets/ranges/default.json", "range layout to load")
	flag.Parse()

	t, err := config.Load(*tuningPath)
	if err != nil {
		log.Fatalf("ballista: %v", err)
	}
	g, err := game.New(t, *rangePath)
	if err != nil {
		log.Fatalf("ballista: %v", err)
	}
	g.Run()
}
