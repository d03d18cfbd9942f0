package tui

import (
	"log/slog"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

// Options carries everything the interactive console needs. The CLI layer
// owns flag/env/config resolution; nothing in this package reads viper.
type Options struct {
	Client *api.Client
	Prefs  *prefs.Prefs
	Log    *slog.Logger

	// ContentInterval drives page-content polling, StatusInterval the
	// health/stats indicator. Non-positive values fall back to defaults.
	ContentInterval time.Duration
	StatusInterval  time.Duration
}

const (
	defaultContentInterval = 5 * time.Second
	defaultStatusInterval  = 10 * time.Second
)

func Run(opts Options) error {
	if opts.ContentInterval <= 0 {
		opts.ContentInterval = defaultContentInterval
	}
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = defaultStatusInterval
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}

	applyColorProfilePreference()
	applyThemePreference(opts.Prefs)

	con := newConsole(opts)
	m := newAppModel(con, opts.Prefs)

	p := tea.NewProgram(m, tea.WithAltScreen())
	con.setSend(p.Send)

	con.sched.Start(ownerStatus, opts.StatusInterval, con.tickStatus)
	con.sched.Start(ownerQueues, opts.ContentInterval, con.tickQueues)
	con.sched.Start(ownerTasks, opts.ContentInterval, con.tickTasks)
	con.sched.Start(ownerConfig, opts.ContentInterval, con.tickConfig)

	_, err := p.Run()
	con.sched.StopAll()
	return err
}
