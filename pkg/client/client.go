package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/daniacca/rnaworld/internal/rna"
)

// ParamsBuilder provides a fluent API for building a partial parameter set.
// Only the fields that were set are sent, so the server keeps the rest.
type ParamsBuilder struct {
	cfg rna.ParamsConfig
}

// NewParams creates an empty params builder.
func NewParams() *ParamsBuilder {
	return &ParamsBuilder{}
}

// Capacity sets the maximum population kept after each tick.
func (pb *ParamsBuilder) Capacity(n int) *ParamsBuilder {
	pb.cfg.Capacity = &n
	return pb
}

// SequenceLength sets the length of strands created by a reset.
// It has no effect on the current population until the next reset.
func (pb *ParamsBuilder) SequenceLength(n int) *ParamsBuilder {
	pb.cfg.SequenceLength = &n
	return pb
}

// MutationRate sets the per-symbol substitution probability during replication.
func (pb *ParamsBuilder) MutationRate(rate float64) *ParamsBuilder {
	pb.cfg.MutationRate = &rate
	return pb
}

// ReplicationRates sets the per-tick replication probability of ordinary
// and catalytic strands.
func (pb *ParamsBuilder) ReplicationRates(base, catalytic float64) *ParamsBuilder {
	pb.cfg.BaseReplicationRate = &base
	pb.cfg.CatalyticReplicationRate = &catalytic
	return pb
}

// DegradationRate sets the base per-tick degradation probability.
func (pb *ParamsBuilder) DegradationRate(rate float64) *ParamsBuilder {
	pb.cfg.BaseDegradationRate = &rate
	return pb
}

// GCStabilityBonus sets how much a strand's GC fraction lowers its
// degradation probability.
func (pb *ParamsBuilder) GCStabilityBonus(bonus float64) *ParamsBuilder {
	pb.cfg.GCStabilityBonus = &bonus
	return pb
}

// CatalyticMotif sets the motif that marks new strands as catalytic.
func (pb *ParamsBuilder) CatalyticMotif(motif string) *ParamsBuilder {
	pb.cfg.CatalyticMotif = &motif
	return pb
}

// Build returns the partial parameter set.
func (pb *ParamsBuilder) Build() rna.ParamsConfig {
	return pb.cfg
}

// NotificationBuilder provides a fluent API for building an environment's
// notification settings.
type NotificationBuilder struct {
	enabled        bool
	notifiers      []string
	everyNTicks    int
	includeStrands bool
}

// NewNotification creates a new notification builder with notifications
// enabled by default.
func NewNotification() *NotificationBuilder {
	return &NotificationBuilder{
		enabled:   true,
		notifiers: make([]string, 0),
	}
}

// Enabled sets whether tick events are published.
func (nb *NotificationBuilder) Enabled(enabled bool) *NotificationBuilder {
	nb.enabled = enabled
	return nb
}

// Notifiers adds notifier IDs to publish to.
// Notifiers must be registered with the server separately.
func (nb *NotificationBuilder) Notifiers(ids ...string) *NotificationBuilder {
	nb.notifiers = append(nb.notifiers, ids...)
	return nb
}

// Every publishes one event every n ticks.
func (nb *NotificationBuilder) Every(n int) *NotificationBuilder {
	nb.everyNTicks = n
	return nb
}

// IncludeStrands attaches the whole population to every event.
func (nb *NotificationBuilder) IncludeStrands(include bool) *NotificationBuilder {
	nb.includeStrands = include
	return nb
}

// Build converts the builder to a NotificationConfig.
func (nb *NotificationBuilder) Build() rna.NotificationConfig {
	return rna.NotificationConfig{
		Enabled:        nb.enabled,
		Notifiers:      nb.notifiers,
		EveryNTicks:    nb.everyNTicks,
		IncludeStrands: nb.includeStrands,
	}
}

// EnvironmentStatus is the run state reported by the control endpoints.
type EnvironmentStatus struct {
	ID         string  `json:"id"`
	Tick       int64   `json:"tick"`
	Population int     `json:"population"`
	Running    bool    `json:"running"`
	Speed      float64 `json:"speed"`
}

// do sends a request to baseURL joined with path and decodes a JSON response
// into out when out is non-nil.
func do(ctx context.Context, method, baseURL string, path []string, query url.Values, body any, out any) error {
	u, err := url.JoinPath(baseURL, path...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(bytes.TrimSpace(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateEnvironment creates an environment on an RNA World server and returns
// its first frame. params may be nil to use the server's defaults.
// The baseURL is the server's base URL (e.g., "http://localhost:8080").
func CreateEnvironment(ctx context.Context, baseURL, envID string, params *ParamsBuilder) (rna.Frame, error) {
	var body any
	if params != nil {
		body = params.Build()
	}
	var frame rna.Frame
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID}, nil, body, &frame)
	return frame, err
}

// DeleteEnvironment stops and removes an environment.
func DeleteEnvironment(ctx context.Context, baseURL, envID string) error {
	return do(ctx, http.MethodDelete, baseURL, []string{"env", envID}, nil, nil, nil)
}

// ApplyParams merges the builder's fields into an environment's parameters
// and returns the parameters now in effect. The server rejects the whole
// update if the result is invalid.
func ApplyParams(ctx context.Context, baseURL, envID string, params *ParamsBuilder) (rna.Params, error) {
	var p rna.Params
	err := do(ctx, http.MethodPut, baseURL, []string{"env", envID, "params"}, nil, params.Build(), &p)
	return p, err
}

// GetParams returns an environment's current parameters.
func GetParams(ctx context.Context, baseURL, envID string) (rna.Params, error) {
	var p rna.Params
	err := do(ctx, http.MethodGet, baseURL, []string{"env", envID, "params"}, nil, nil, &p)
	return p, err
}

// Reset reseeds an environment's population and returns its stats.
func Reset(ctx context.Context, baseURL, envID string) (rna.Stats, error) {
	var st rna.Stats
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "reset"}, nil, nil, &st)
	return st, err
}

// Tick advances an environment by one tick and returns its stats.
func Tick(ctx context.Context, baseURL, envID string) (rna.Stats, error) {
	var st rna.Stats
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "tick"}, nil, nil, &st)
	return st, err
}

// Start runs an environment on the server's schedule. A positive interval
// overrides the server's base tick interval.
func Start(ctx context.Context, baseURL, envID string, interval time.Duration) (EnvironmentStatus, error) {
	var query url.Values
	if ms := interval.Milliseconds(); ms > 0 {
		query = url.Values{"interval": {strconv.FormatInt(ms, 10)}}
	}
	var status EnvironmentStatus
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "start"}, query, nil, &status)
	return status, err
}

// Pause stops an environment's schedule.
func Pause(ctx context.Context, baseURL, envID string) (EnvironmentStatus, error) {
	var status EnvironmentStatus
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "pause"}, nil, nil, &status)
	return status, err
}

// Resume restarts a paused environment.
func Resume(ctx context.Context, baseURL, envID string) (EnvironmentStatus, error) {
	var status EnvironmentStatus
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "resume"}, nil, nil, &status)
	return status, err
}

// SetSpeed changes an environment's speed multiplier. Zero or less idles
// the schedule.
func SetSpeed(ctx context.Context, baseURL, envID string, multiplier float64) (EnvironmentStatus, error) {
	query := url.Values{"multiplier": {strconv.FormatFloat(multiplier, 'g', -1, 64)}}
	var status EnvironmentStatus
	err := do(ctx, http.MethodPut, baseURL, []string{"env", envID, "speed"}, query, nil, &status)
	return status, err
}

// GetStats returns an environment's population statistics.
func GetStats(ctx context.Context, baseURL, envID string) (rna.Stats, error) {
	var st rna.Stats
	err := do(ctx, http.MethodGet, baseURL, []string{"env", envID, "stats"}, nil, nil, &st)
	return st, err
}

// GetFrame returns the renderer view of an environment.
func GetFrame(ctx context.Context, baseURL, envID string) (rna.Frame, error) {
	var frame rna.Frame
	err := do(ctx, http.MethodGet, baseURL, []string{"env", envID, "frame"}, nil, nil, &frame)
	return frame, err
}

// InsertStrand adds a strand with the given sequence to an environment.
func InsertStrand(ctx context.Context, baseURL, envID, sequence string) (rna.Strand, error) {
	var s rna.Strand
	body := map[string]string{"sequence": sequence}
	err := do(ctx, http.MethodPost, baseURL, []string{"env", envID, "strands"}, nil, body, &s)
	return s, err
}

// ConfigureNotifications replaces an environment's notification settings.
func ConfigureNotifications(ctx context.Context, baseURL, envID string, nb *NotificationBuilder) error {
	return do(ctx, http.MethodPut, baseURL, []string{"env", envID, "notify"}, nil, nb.Build(), nil)
}

// RegisterWebhook registers a webhook notifier on the server.
func RegisterWebhook(ctx context.Context, baseURL, id, webhookURL string, headers map[string]string) error {
	config := map[string]any{"url": webhookURL}
	if len(headers) > 0 {
		config["headers"] = headers
	}
	body := map[string]any{"type": "webhook", "id": id, "config": config}
	return do(ctx, http.MethodPost, baseURL, []string{"notifiers"}, nil, body, nil)
}
