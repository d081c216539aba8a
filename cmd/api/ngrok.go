package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ngrokMaxAttempts = 10
	ngrokRetryDelay  = 3 * time.Second
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// detectNgrokURL queries the ngrok local API and returns the first HTTPS
// tunnel URL. Retries cover the window where ngrok is still starting up.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	for attempt := 1; attempt <= ngrokMaxAttempts; attempt++ {
		url, err := queryTunnels(ctx, client, ngrokAPIBase+"/api/tunnels")
		if err == nil && url != "" {
			return url, nil
		}

		if attempt == ngrokMaxAttempts {
			if err != nil {
				return "", fmt.Errorf("ngrok API not reachable after %d attempts: %w", ngrokMaxAttempts, err)
			}
			return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", ngrokMaxAttempts)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(ngrokRetryDelay):
		}
	}

	return "", fmt.Errorf("ngrok detection failed")
}

func queryTunnels(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
	}

	// Prefer HTTPS tunnels
	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}

	// ngrok is up but has no tunnels yet
	return "", nil
}
