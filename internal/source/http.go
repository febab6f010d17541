// Package source implements the metric sources a gauge can be refreshed
// from.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
)

const maxBodySize = 1 << 20

// HTTPSource reads the latest cpu and sysinfo values from an instance's
// metrics API.
type HTTPSource struct {
	client *http.Client
	token  string
	log    logger.Logger
}

func NewHTTPSource(timeout time.Duration, token string, log logger.Logger) *HTTPSource {
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
		token:  token,
		log:    log,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, instance *domain.Instance) (*domain.MetricsSnapshot, error) {
	endpoint, err := metricsEndpoint(instance)
	if err != nil {
		return nil, &domain.FetchError{Reason: "invalid metrics url", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &domain.FetchError{Reason: "invalid metrics request", Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Reason: "metrics request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.FetchError{Reason: "failed to read metrics response", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Debug("metrics api returned error", "instance_id", instance.ID, "status", resp.StatusCode)
		return nil, &domain.FetchError{Reason: errorReason(resp.StatusCode, body), Status: resp.StatusCode}
	}

	snapshot, err := DecodeSnapshot(body)
	if err != nil {
		return nil, &domain.FetchError{Reason: "invalid metrics response", Status: resp.StatusCode, Err: err}
	}

	return snapshot, nil
}

func metricsEndpoint(instance *domain.Instance) (string, error) {
	if instance.MetricsURL == "" {
		return "", fmt.Errorf("instance %s has no metrics url", instance.ID)
	}

	base, err := url.Parse(strings.TrimRight(instance.MetricsURL, "/"))
	if err != nil {
		return "", err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", base.Scheme)
	}

	u := base.JoinPath("instances", instance.ID.String(), "metrics")
	q := u.Query()
	q.Set("latest", "cpu,sysinfo")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// errorReason prefers the API's own message over the status text.
func errorReason(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Reason != "" {
			return payload.Reason
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("metrics api returned status %d", status)
}
