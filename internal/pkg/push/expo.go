package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/terralogix/hr-backend-go/internal/config"
)

const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// Message is a single Expo push message
type Message struct {
	To       string                 `json:"to"`
	Title    string                 `json:"title"`
	Body     string                 `json:"body"`
	Data     map[string]interface{} `json:"data"`
	Sound    string                 `json:"sound,omitempty"`
	Priority string                 `json:"priority,omitempty"`
}

// Result mirrors the Expo response; OK is false when the request failed or
// Expo reported errors.
type Result struct {
	OK  bool            `json:"ok"`
	Raw json.RawMessage `json:"raw"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// APIError represents a non-retryable Expo response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("expo push error [%d]: %s", e.StatusCode, e.Body)
}

// Client posts push messages to the Expo push service
type Client struct {
	http        *http.Client
	url         string
	accessToken string
	maxRetries  int
	backoff     time.Duration
}

func NewClient(cfg config.PushConfig) *Client {
	url := cfg.ExpoURL
	if url == "" {
		url = DefaultExpoURL
	}
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http:        &http.Client{Timeout: timeout},
		url:         url,
		accessToken: cfg.AccessToken,
		maxRetries:  retries,
		backoff:     500 * time.Millisecond,
	}
}

type expoResponse struct {
	Data   json.RawMessage   `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// Send delivers msg, retrying transport failures and 429/5xx responses with
// exponential back-off.
func (c *Client) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.Sound == "" {
		msg.Sound = "default"
	}
	if msg.Priority == "" {
		msg.Priority = "high"
	}
	if msg.Data == nil {
		msg.Data = map[string]interface{}{}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode push message: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		result, retry, err := c.post(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			break
		}

		slog.Warn("Expo push attempt failed", "attempt", attempt, "max_retries", c.maxRetries, "error", err)
		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}
	}

	return Result{OK: false, Raw: errorRaw(lastErr)}, lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) (Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, true, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Result{}, true, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	raw := json.RawMessage(body)
	var parsed expoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		raw, _ = json.Marshal(map[string]string{"_text": string(body)})
	}

	return Result{
		OK:  resp.StatusCode == http.StatusOK && len(parsed.Errors) == 0,
		Raw: raw,
	}, false, nil
}

func errorRaw(err error) json.RawMessage {
	if err == nil {
		return nil
	}
	raw, _ := json.Marshal(map[string]string{"error": err.Error()})
	return raw
}
