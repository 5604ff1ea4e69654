package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoTunnel is returned when the tunnel API lists no public URL
var ErrNoTunnel = errors.New("no public tunnel found")

// DiscoverTunnel asks a local ngrok agent for its public URL, preferring
// https. The probe gives up after timeout.
func DiscoverTunnel(ctx context.Context, apiURL string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "build tunnel probe")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "probe tunnel api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("tunnel api returned status %d", resp.StatusCode)
	}

	var body struct {
		Tunnels []struct {
			PublicURL string `json:"public_url"`
			Proto     string `json:"proto"`
		} `json:"tunnels"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decode tunnel api")
	}

	fallback := ""
	for _, t := range body.Tunnels {
		if strings.HasPrefix(t.PublicURL, "https://") {
			return t.PublicURL, nil
		}
		if fallback == "" && t.PublicURL != "" {
			fallback = t.PublicURL
		}
	}
	if fallback == "" {
		return "", ErrNoTunnel
	}
	return fallback, nil
}
