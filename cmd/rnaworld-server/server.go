package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/daniacca/rnaworld/internal/rna"
	"github.com/daniacca/rnaworld/internal/rna/notifiers"
)

// websocketNotifierID is the ID of the built-in notifier behind GET /ws.
const websocketNotifierID = "ws"

// rnaLoggerAdapter adapts the server's Logger to the rna.Logger interface
type rnaLoggerAdapter struct {
	logger *Logger
}

func (a *rnaLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *rnaLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *rnaLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *rnaLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}

// Server represents the HTTP server for RNA World
type Server struct {
	manager   *rna.EnvironmentManager
	notifiers *rna.NotificationManager
	ws        *notifiers.WebSocketNotifier
	logger    *Logger

	mu               sync.RWMutex
	baseParams       rna.Params
	tickInterval     time.Duration
	notifyEveryTicks int
}

// NewServer creates a new server instance with the built-in websocket
// notifier registered.
func NewServer(logger *Logger) *Server {
	rnaLogger := &rnaLoggerAdapter{logger: logger}
	notifierMgr := rna.NewNotificationManagerWithLogger(rnaLogger)

	ws := notifiers.NewWebSocketNotifier(websocketNotifierID)
	if err := notifierMgr.RegisterNotifier(ws); err != nil {
		logger.Errorf("Failed to register websocket notifier: %v", err)
	}

	return &Server{
		manager:          rna.NewEnvironmentManagerWithLogger(rnaLogger),
		notifiers:        notifierMgr,
		ws:               ws,
		logger:           logger,
		baseParams:       rna.DefaultParams(),
		tickInterval:     rna.DefaultTickInterval,
		notifyEveryTicks: 1,
	}
}

// SetBaseParams sets the params new environments start from.
func (s *Server) SetBaseParams(p rna.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseParams = p
}

// SetTickInterval sets the default interval used by POST /env/{id}/start.
func (s *Server) SetTickInterval(d time.Duration) {
	if d <= 0 {
		d = rna.DefaultTickInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickInterval = d
}

// SetNotifyEveryTicks sets how often new environments publish tick events.
func (s *Server) SetNotifyEveryTicks(n int) {
	if n < 1 {
		n = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyEveryTicks = n
}

func (s *Server) settings() (rna.Params, time.Duration, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseParams, s.tickInterval, s.notifyEveryTicks
}

// createEnvironment creates an environment wired to the shared notification
// manager, publishing to the websocket notifier by default.
func (s *Server) createEnvironment(id rna.EnvironmentID, params rna.Params) (*rna.Environment, error) {
	env, err := s.manager.CreateEnvironment(id, params)
	if err != nil {
		return nil, err
	}

	_, _, every := s.settings()
	env.SetNotificationManager(s.notifiers)
	env.SetNotificationConfig(rna.NotificationConfig{
		Enabled:     true,
		Notifiers:   []string{websocketNotifierID},
		EveryNTicks: every,
	})

	s.logger.Infof("Environment created: env_id=%s capacity=%d sequence_length=%d motif=%s",
		env.ID(), params.Capacity, params.SequenceLength, params.CatalyticMotif)
	return env, nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/envs", s.handleListEnvironments)
	mux.HandleFunc("/env/", s.handleEnvironmentRoutes)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Close stops every environment and closes all notifiers.
func (s *Server) Close() error {
	s.manager.Close()
	return s.notifiers.Close()
}
