// Command trackdesk is the terminal client for the trackdesk service.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/gateway"
	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/store"
	"github.com/dspetrov/trackdesk/internal/tui"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "config file")
	serverURL := flag.String("server", "", "backend URL (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("trackdesk %s (%s)\n", version, buildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fail(err)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	// Logs go to a file: stderr belongs to the terminal UI.
	log, err := newFileLogger(cfg.LogFile)
	if err != nil {
		fail(err)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("version", version), zap.String("server", cfg.ServerURL))

	gw := gateway.NewClient(cfg.ServerURL,
		gateway.WithSessionCache(cfg.SessionCache),
		gateway.WithLogger(log),
	)

	auth := store.NewAuthStore(gw, log)
	projects := store.NewProjectsStore(gw, log)
	tickets := store.NewTicketsStore(gw, log)

	// The gateway drops its session when the backend rejects the token.
	// Reconcile only that direction here: sign-in transitions are
	// completed by the store operations themselves.
	unsub := gw.OnSessionChange(func(id *model.Identity) {
		if id == nil && auth.State().Identity != nil {
			log.Info("session invalidated, resetting auth state")
			auth.SetUser(nil, nil)
		}
	})
	defer unsub()

	p := tea.NewProgram(
		tui.New(tui.Stores{Auth: auth, Projects: projects, Tickets: tickets}),
		tea.WithAltScreen(),
	)

	defer auth.Subscribe(func(st store.AuthState) { p.Send(tui.AuthMsg{State: st}) })()
	defer projects.Subscribe(func(st store.ProjectsState) { p.Send(tui.ProjectsMsg{State: st}) })()
	defer tickets.Subscribe(func(st store.TicketsState) { p.Send(tui.TicketsMsg{State: st}) })()

	if _, err := p.Run(); err != nil {
		fail(err)
	}
}

func newFileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
