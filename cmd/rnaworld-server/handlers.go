package main

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/daniacca/rnaworld/internal/rna"
	"github.com/daniacca/rnaworld/internal/rna/notifiers"
)

// extractEnvID extracts the environment ID from a path like "/env/{envID}/..."
// Returns the environment ID and the remaining path, or empty string if not found
func extractEnvID(path string) (rna.EnvironmentID, string) {
	if !strings.HasPrefix(path, "/env/") {
		return "", ""
	}

	rest := path[5:]

	idx := strings.Index(rest, "/")
	if idx == -1 {
		return rna.EnvironmentID(rest), ""
	}

	return rna.EnvironmentID(rest[:idx]), rest[idx:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeParamsConfig reads a partial parameter set as JSON, or as YAML when
// the request says so. An empty body yields an empty config.
func decodeParamsConfig(r *http.Request) (rna.ParamsConfig, error) {
	var cfg rna.ParamsConfig
	var err error
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		err = yaml.NewDecoder(r.Body).Decode(&cfg)
	} else {
		err = json.NewDecoder(r.Body).Decode(&cfg)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return rna.ParamsConfig{}, err
	}
	return cfg, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /envs
// List all environment IDs
func (s *Server) handleListEnvironments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	envIDs := s.manager.ListEnvironments()
	ids := make([]string, len(envIDs))
	for i, id := range envIDs {
		ids[i] = string(id)
	}

	writeJSON(w, http.StatusOK, map[string][]string{"environments": ids})
}

// handleEnvironmentRoutes routes requests to environment-specific handlers
// Handles paths like /env/{envID}/params, /env/{envID}/tick, etc.
func (s *Server) handleEnvironmentRoutes(w http.ResponseWriter, r *http.Request) {
	envID, remainingPath := extractEnvID(r.URL.Path)
	if envID == "" {
		http.Error(w, "environment ID is required in path: /env/{envID}/...", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodPost:
		s.handleCreateEnvironment(w, r, envID)
		return
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteEnvironment(w, r, envID)
		return
	}

	env, exists := s.manager.GetEnvironment(envID)
	if !exists {
		http.Error(w, "environment not found", http.StatusNotFound)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodGet:
		s.handleEnvironmentStatus(w, env)
	case remainingPath == "/params" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, env.Params().Get())
	case remainingPath == "/params" && r.Method == http.MethodPut:
		s.handleUpdateParams(w, r, envID)
	case remainingPath == "/reset" && r.Method == http.MethodPost:
		env.Reset()
		s.logger.Debugf("Environment reset via API: env_id=%s", envID)
		writeJSON(w, http.StatusOK, env.Stats())
	case remainingPath == "/tick" && r.Method == http.MethodPost:
		env.Step()
		writeJSON(w, http.StatusOK, env.Stats())
	case remainingPath == "/start" && r.Method == http.MethodPost:
		s.handleStart(w, r, env)
	case remainingPath == "/pause" && r.Method == http.MethodPost:
		env.Stop()
		s.logger.Infof("Environment paused: env_id=%s", envID)
		s.handleEnvironmentStatus(w, env)
	case remainingPath == "/resume" && r.Method == http.MethodPost:
		s.handleResume(w, env)
	case remainingPath == "/speed" && r.Method == http.MethodPut:
		s.handleSpeed(w, r, env)
	case remainingPath == "/stats" && r.Method == http.MethodGet:
		s.handleStats(w, r, env)
	case remainingPath == "/strands" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, env.Strands())
	case remainingPath == "/strands" && r.Method == http.MethodPost:
		s.handleInsertStrand(w, r, env)
	case remainingPath == "/frame" && r.Method == http.MethodGet:
		s.handleFrame(w, env)
	case remainingPath == "/notify" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, env.NotificationConfig())
	case remainingPath == "/notify" && r.Method == http.MethodPut:
		s.handleNotifyConfig(w, r, env)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type environmentStatus struct {
	ID         rna.EnvironmentID `json:"id"`
	Tick       int64             `json:"tick"`
	Population int               `json:"population"`
	Running    bool              `json:"running"`
	Speed      float64           `json:"speed"`
}

func (s *Server) handleEnvironmentStatus(w http.ResponseWriter, env *rna.Environment) {
	writeJSON(w, http.StatusOK, environmentStatus{
		ID:         env.ID(),
		Tick:       env.Tick(),
		Population: env.Len(),
		Running:    env.IsRunning(),
		Speed:      env.Speed(),
	})
}

// POST /env/{envID}
// Body (optional): partial params, JSON or YAML, layered over the server's
// base params.
func (s *Server) handleCreateEnvironment(w http.ResponseWriter, r *http.Request, envID rna.EnvironmentID) {
	defer r.Body.Close()

	cfg, err := decodeParamsConfig(r)
	if err != nil {
		http.Error(w, "invalid params: "+err.Error(), http.StatusBadRequest)
		return
	}

	base, _, _ := s.settings()
	params := cfg.ApplyTo(base)
	if err := rna.ValidateParams(params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.createEnvironment(envID, params); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	env, _ := s.manager.GetEnvironment(envID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(env.Frame())
}

// DELETE /env/{envID}
func (s *Server) handleDeleteEnvironment(w http.ResponseWriter, r *http.Request, envID rna.EnvironmentID) {
	if err := s.manager.DeleteEnvironment(envID); err != nil {
		s.logger.Warnf("Failed to delete environment: env_id=%s error=%v", envID, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Infof("Environment deleted: env_id=%s", envID)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("environment deleted"))
}

// PUT /env/{envID}/params
// Body: partial params. Only the fields present are changed; the update is
// rejected as a whole if the result is invalid.
func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request, envID rna.EnvironmentID) {
	defer r.Body.Close()

	cfg, err := decodeParamsConfig(r)
	if err != nil {
		http.Error(w, "invalid params: "+err.Error(), http.StatusBadRequest)
		return
	}

	params, err := s.manager.UpdateEnvironmentParams(envID, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Environment params updated: env_id=%s", envID)
	writeJSON(w, http.StatusOK, params)
}

// POST /env/{envID}/start
// Query param: interval in milliseconds (default: the server tick interval)
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, env *rna.Environment) {
	_, interval, _ := s.settings()
	if intervalStr := r.URL.Query().Get("interval"); intervalStr != "" {
		ms, err := strconv.Atoi(intervalStr)
		if err != nil || ms <= 0 {
			http.Error(w, "invalid interval: must be a positive integer (milliseconds)", http.StatusBadRequest)
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	env.Run(interval)
	s.logger.Infof("Environment started: env_id=%s interval=%v", env.ID(), interval)
	s.handleEnvironmentStatus(w, env)
}

// POST /env/{envID}/resume
func (s *Server) handleResume(w http.ResponseWriter, env *rna.Environment) {
	env.Resume()
	if !env.IsRunning() {
		http.Error(w, "environment was never started", http.StatusConflict)
		return
	}
	s.logger.Infof("Environment resumed: env_id=%s", env.ID())
	s.handleEnvironmentStatus(w, env)
}

// PUT /env/{envID}/speed?multiplier=x
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request, env *rna.Environment) {
	speed, err := strconv.ParseFloat(r.URL.Query().Get("multiplier"), 64)
	if err != nil || math.IsNaN(speed) || math.IsInf(speed, 0) {
		http.Error(w, "invalid multiplier: must be a finite number", http.StatusBadRequest)
		return
	}

	env.SetSpeed(speed)
	s.logger.Debugf("Environment speed changed: env_id=%s speed=%g", env.ID(), speed)
	s.handleEnvironmentStatus(w, env)
}

// GET /env/{envID}/stats
// Query param: format=csv returns a header and one CSV row.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, env *rna.Environment) {
	st := env.Stats()
	if r.URL.Query().Get("format") != "csv" {
		writeJSON(w, http.StatusOK, st)
		return
	}

	rows := []rna.Stats{st}
	w.Header().Set("Content-Type", "text/csv")
	if err := gocsv.Marshal(&rows, w); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// POST /env/{envID}/strands
// Body: { "sequence": "GGAAGUC" }
type insertStrandRequest struct {
	Sequence string `json:"sequence"`
}

func (s *Server) handleInsertStrand(w http.ResponseWriter, r *http.Request, env *rna.Environment) {
	defer r.Body.Close()

	var req insertStrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	seq := strings.ToUpper(strings.TrimSpace(req.Sequence))
	if seq == "" {
		http.Error(w, "sequence is required", http.StatusBadRequest)
		return
	}
	for i := 0; i < len(seq); i++ {
		if !rna.IsNucleotide(seq[i]) {
			http.Error(w, "sequence has invalid symbol '"+string(seq[i])+"', must be one of "+rna.Alphabet, http.StatusBadRequest)
			return
		}
	}

	strand := env.Insert(seq)
	s.logger.Debugf("Strand inserted: env_id=%s id=%d sequence=%s", env.ID(), strand.ID, strand.Sequence)
	writeJSON(w, http.StatusCreated, strand)
}

// GET /env/{envID}/frame
func (s *Server) handleFrame(w http.ResponseWriter, env *rna.Environment) {
	data, err := rna.EncodeFrameJSON(env.Frame())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// PUT /env/{envID}/notify
// Body: NotificationConfig JSON
func (s *Server) handleNotifyConfig(w http.ResponseWriter, r *http.Request, env *rna.Environment) {
	defer r.Body.Close()

	var cfg rna.NotificationConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	for _, id := range cfg.Notifiers {
		if _, ok := s.notifiers.GetNotifier(id); !ok {
			http.Error(w, "unknown notifier: "+id, http.StatusBadRequest)
			return
		}
	}

	env.SetNotificationConfig(cfg)
	s.logger.Infof("Environment notifications updated: env_id=%s enabled=%t notifiers=%v", env.ID(), cfg.Enabled, cfg.Notifiers)
	writeJSON(w, http.StatusOK, cfg)
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifiers.ListNotifiers()

	list := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		if notifier, exists := s.notifiers.GetNotifier(id); exists {
			list = append(list, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifiers": list})
}

// POST /notifiers
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		req.ID = rna.NewRandomID()
	}

	var notifier rna.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)

		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifiers.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID, "type": req.Type})
}

// DELETE /notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}
	if notifierID == websocketNotifierID {
		http.Error(w, "the websocket notifier is built in and cannot be removed", http.StatusBadRequest)
		return
	}

	if err := s.notifiers.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}

// GET /ws
// Upgrades to a websocket that receives tick events of every environment
// publishing to the built-in notifier.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.ws.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("Websocket upgrade failed: %v", err)
		return
	}

	s.ws.RegisterClient(conn)
	s.logger.Debugf("Websocket client connected: remote=%s", r.RemoteAddr)

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.ws.UnregisterClient(conn)
			s.logger.Debugf("Websocket client disconnected: remote=%s", r.RemoteAddr)
			return
		}
	}
}
