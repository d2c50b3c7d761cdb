// Hearth - Live Home Dashboard
//
// This is the main entry point for hearth, a terminal dashboard that
// mirrors a home-automation hub's live entity state. It connects to the
// hub's WebSocket API, loads a full state snapshot, subscribes to state
// change events and keeps every entity widget current until shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/nerrad567/hearth/internal/entity"
	"github.com/nerrad567/hearth/internal/hub"
	"github.com/nerrad567/hearth/internal/infrastructure/config"
	"github.com/nerrad567/hearth/internal/infrastructure/logging"
	"github.com/nerrad567/hearth/internal/infrastructure/socket"
	"github.com/nerrad567/hearth/internal/projection"
	"github.com/nerrad567/hearth/internal/render"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path. The file is optional: URL and token
// can come entirely from the environment.
const defaultConfigPath = ""

// Exit codes. The caller can tell a bad config from a bad token without
// parsing stderr.
const (
	exitGeneric = 1
	exitConfig  = 2
	exitAuth    = 3
)

// errConfig marks startup failures caused by configuration rather than
// the hub.
var errConfig = errors.New("configuration error")

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run failure to the process exit code.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errConfig):
		return exitConfig
	case errors.Is(err, hub.ErrAuthInvalid):
		return exitAuth
	default:
		return exitGeneric
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	// Reinitialise logger with config settings. Logs go to a file by
	// default: stdout belongs to the dashboard.
	log = logging.New(cfg.Logging, version)
	log.Info("starting hearth",
		"version", version,
		"commit", commit,
		"build_date", date,
		"hub_url", cfg.Hub.URL,
	)

	// Initialise entity registry
	registry := entity.NewRegistry()
	registry.SetLogger(log)

	// Wire the render pipeline: registry changes flow through the
	// adapter onto the terminal surface.
	surface := newLineSurface(os.Stdout)
	adapter := render.NewAdapter(registry, surface, cfg.UI.HiddenDomains)
	adapter.SetLogger(log)
	adapter.Attach()
	if len(cfg.UI.HiddenDomains) > 0 {
		log.Info("hiding domains", "domains", strings.Join(cfg.UI.HiddenDomains, ","))
	}

	// Transport dialer: each reconnect attempt opens a fresh WebSocket
	sockOpts := socket.Options{
		HandshakeTimeout: cfg.GetHandshakeTimeout(),
		WriteTimeout:     cfg.GetWriteTimeout(),
		MaxMessageSize:   cfg.Hub.MaxMessageSize,
	}
	dialer := hub.DialerFunc(func(ctx context.Context, url string) (hub.Conn, error) {
		return socket.Dial(ctx, url, sockOpts)
	})

	// Protocol session: the single writer to the registry
	session := hub.NewSession(hub.Options{
		URL:              cfg.Hub.URL,
		Token:            cfg.Hub.Token,
		HandshakeTimeout: cfg.GetHandshakeTimeout(),
		InitialDelay:     cfg.GetInitialDelay(),
		MaxDelay:         cfg.GetMaxDelay(),
	}, dialer, registry)
	session.SetLogger(log)
	session.OnStatus(adapter.HandleStatus)

	log.Info("initialisation complete, connecting to hub")

	// Run blocks until ctx is cancelled or the hub rejects the token
	err = session.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("hearth stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEARTH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEARTH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// lineSurface is a minimal built-in render surface: it repaints the
// whole entity list to the terminal on every change. It keeps the
// binary operable without an external rendering engine; a richer
// engine plugs in through the same render.Surface interface.
type lineSurface struct {
	mu      sync.Mutex
	out     io.Writer
	widgets map[entity.ID]projection.Projection
	order   []entity.ID
	state   render.ConnectionState
}

func newLineSurface(out io.Writer) *lineSurface {
	return &lineSurface{
		out:     out,
		widgets: make(map[entity.ID]projection.Projection),
		state:   render.ConnectionStale,
	}
}

// CreateOrUpdateWidget implements render.Surface.
func (s *lineSurface) CreateOrUpdateWidget(id entity.ID, p projection.Projection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.widgets[id]; !ok {
		s.order = append(s.order, id)
		sort.Slice(s.order, func(i, j int) bool {
			a, b := s.order[i], s.order[j]
			if da, db := a.Domain(), b.Domain(); da != db {
				return da < db
			}
			return a < b
		})
	}
	s.widgets[id] = p
	s.repaint()
}

// SetConnectionState implements render.Surface.
func (s *lineSurface) SetConnectionState(state render.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.repaint()
}

// repaint redraws the full list. Caller holds s.mu.
func (s *lineSurface) repaint() {
	var b strings.Builder

	// Home the cursor and clear; a full-screen library is overkill for
	// a line-per-entity list.
	b.WriteString("\033[H\033[2J")

	marker := "\033[2m○ stale\033[0m"
	if s.state == render.ConnectionLive {
		marker = "\033[32m● live\033[0m"
	}
	fmt.Fprintf(&b, "hearth  %s  (%d entities)\n\n", marker, len(s.order))

	for _, id := range s.order {
		p := s.widgets[id]
		icon := p.Icon
		reset := ""
		if p.Color != nil {
			fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm", p.Color.R, p.Color.G, p.Color.B)
			reset = "\033[0m"
		}
		fmt.Fprintf(&b, "%s %s%-30s %s\n", icon, reset, p.Label, p.ValueText)
	}

	_, _ = io.WriteString(s.out, b.String())
}
