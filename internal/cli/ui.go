package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/store"
	"github.com/tgienger/planner/internal/ui"
)

func runUI(v *viper.Viper) error {
	c, cfg, done, err := connect(v)
	if err != nil {
		return err
	}
	defer done()

	database, err := db.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	app := ui.NewApp(c, store.New(c), database, ui.Options{Theme: cfg.Theme})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}
