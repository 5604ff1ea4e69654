package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tunnelAPI(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/api/tunnels"
}

func TestDiscoverTunnel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "prefers https",
			status: http.StatusOK,
			body:   `{"tunnels":[{"public_url":"http://a.ngrok.io","proto":"http"},{"public_url":"https://a.ngrok.io","proto":"https"}]}`,
			want:   "https://a.ngrok.io",
		},
		{
			name:   "falls back to first url",
			status: http.StatusOK,
			body:   `{"tunnels":[{"public_url":"","proto":"tcp"},{"public_url":"tcp://0.tcp.ngrok.io:1234","proto":"tcp"}]}`,
			want:   "tcp://0.tcp.ngrok.io:1234",
		},
		{
			name:    "no tunnels",
			status:  http.StatusOK,
			body:    `{"tunnels":[]}`,
			wantErr: ErrNoTunnel,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DiscoverTunnel(context.Background(), tunnelAPI(t, tc.status, tc.body), time.Second)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDiscoverTunnel_Failures(t *testing.T) {
	t.Parallel()

	_, err := DiscoverTunnel(context.Background(), tunnelAPI(t, http.StatusBadGateway, ""), time.Second)
	assert.EqualError(t, err, "tunnel api returned status 502")

	_, err = DiscoverTunnel(context.Background(), tunnelAPI(t, http.StatusOK, "<html>"), time.Second)
	assert.Error(t, err)

	_, err = DiscoverTunnel(context.Background(), "http://127.0.0.1:1/api/tunnels", 200*time.Millisecond)
	assert.Error(t, err)
}

func TestDiscoverTunnel_Timeout(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(done) })

	start := time.Now()
	_, err := DiscoverTunnel(context.Background(), srv.URL, 50*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
