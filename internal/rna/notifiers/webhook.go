package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/daniacca/rnaworld/internal/rna"
)

// Headers set on every webhook delivery so receivers can route and
// deduplicate without decoding the body.
const (
	HeaderEnvironment = "X-RNAWorld-Environment"
	HeaderTick        = "X-RNAWorld-Tick"
	webhookUserAgent  = "rnaworld-webhook/1"
)

// WebhookNotifier delivers tick events to an HTTP endpoint. Each published
// tick becomes one POST whose body is the TickEvent JSON.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
}

// NewWebhookNotifier creates a webhook notifier posting to url with a 5s
// per-delivery timeout.
func NewWebhookNotifier(id, url string) *WebhookNotifier {
	return &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
}

// SetHeader adds a header to every delivery, e.g. an auth token.
// It cannot override the environment and tick headers.
func (wn *WebhookNotifier) SetHeader(key, value string) {
	if wn.headers == nil {
		wn.headers = make(map[string]string)
	}
	wn.headers[key] = value
}

func (wn *WebhookNotifier) ID() string {
	return wn.id
}

func (wn *WebhookNotifier) Type() string {
	return "webhook"
}

// URL returns the delivery endpoint.
func (wn *WebhookNotifier) URL() string {
	return wn.url
}

// Notify posts one tick event. Any non-2xx status is an error so the
// notification manager retries the delivery.
func (wn *WebhookNotifier) Notify(ctx context.Context, event rna.TickEvent) error {
	body, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal tick %d: %w", event.Tick, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range wn.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", webhookUserAgent)
	req.Header.Set(HeaderEnvironment, string(event.EnvironmentID))
	req.Header.Set(HeaderTick, strconv.FormatInt(event.Tick, 10))

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver tick %d to %s: %w", event.Tick, wn.id, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d for tick %d", wn.id, resp.StatusCode, event.Tick)
	}
	return nil
}

// Close is a no-op; deliveries share no long-lived connection state.
func (wn *WebhookNotifier) Close() error {
	return nil
}
