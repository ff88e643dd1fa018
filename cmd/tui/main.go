package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"anomarpg/internal/config"
	"anomarpg/internal/game"
	"anomarpg/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cat, err := game.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal(err)
	}

	m := tui.NewModel(game.NewEngine(cat, cfg.Locale), cfg.MonsterDelay)
	p := tea.NewProgram(m)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
	}
}
