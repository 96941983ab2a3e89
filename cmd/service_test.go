package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/isometry/obelix/internal/config"
	"github.com/isometry/obelix/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("CONFIG_FILE", "")
}

func TestNewDefaults(t *testing.T) {
	resetConfig(t)

	cmd := New()
	require.NoError(t, cmd.ParseFlags(nil))

	assert.Equal(t, config.ModeService, config.Global.Mode)
	assert.Equal(t, "18093", config.Service.Port)
	assert.Equal(t, "", config.Service.Addr)
	assert.Equal(t, ":18093", newServer(newRuntime()).Addr)
}

func TestNewEnvironmentOverrides(t *testing.T) {
	resetConfig(t)
	t.Setenv("SERVICE_HOST_PORT", "9999")
	t.Setenv("SERVICE_IO_TIMEOUT", "2s")
	t.Setenv("LAMBDA_PAYLOAD_TYPE", "lambda-url")

	New()

	assert.Equal(t, "9999", config.Service.Port)
	assert.Equal(t, 2*time.Second, config.Service.Timeout)
	assert.Equal(t, "lambda-url", config.Lambda.PayloadType)
}

func TestNewFlags(t *testing.T) {
	resetConfig(t)

	cmd := New()
	require.NoError(t, cmd.ParseFlags([]string{"-p", "8081", "-H", "127.0.0.1", "-vv"}))

	assert.Equal(t, "127.0.0.1:8081", newServer(newRuntime()).Addr)
	assert.Equal(t, 2, config.Global.Logging.Verbosity)
}

type logLine struct {
	Level string `json:"level"`
	Msg   string `json:"msg"`
	Mode  string `json:"mode"`
	Error string `json:"error"`
}

func decodeLogLines(t *testing.T, out string) []logLine {
	t.Helper()
	var lines []logLine
	for _, raw := range strings.Split(strings.TrimSpace(out), "\n") {
		if raw == "" {
			continue
		}
		var l logLine
		require.NoError(t, json.Unmarshal([]byte(raw), &l), raw)
		lines = append(lines, l)
	}
	return lines
}

func TestStartupErrors(t *testing.T) {
	testCases := []struct {
		Name          string
		Args          []string
		ConfigDir     bool
		ExpectedError string
	}{
		{
			Name:          "invalid_mode",
			Args:          []string{"--mode", "batch"},
			ExpectedError: "invalid mode: batch",
		},
		{
			Name:          "config_file_is_directory",
			Args:          []string{"service"},
			ConfigDir:     true,
			ExpectedError: "is a directory",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resetConfig(t)
			if tc.ConfigDir {
				t.Setenv("CONFIG_FILE", t.TempDir())
			}

			var cmd *cobra.Command
			require.NotPanics(t, func() { cmd = New() })

			var stdout, stderr bytes.Buffer
			cmd.SetArgs(tc.Args)
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.ExpectedError)
			assert.Empty(t, stderr.String())

			lines := decodeLogLines(t, stdout.String())
			require.Len(t, lines, 1)
			assert.Equal(t, "ERROR", lines[0].Level)
			assert.Equal(t, "startup failed", lines[0].Msg)
			assert.Contains(t, lines[0].Error, tc.ExpectedError)
		})
	}
}

func TestServeListenerFailure(t *testing.T) {
	resetConfig(t)
	New()

	var out bytes.Buffer
	logger = helpers.NewLogger(&out, 0, false)
	t.Cleanup(func() { logger = helpers.NewNoopLogger() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = serve(t.Context(), newServer(newRuntime()), ln)
	require.ErrorContains(t, err, "server stopped")

	lines := decodeLogLines(t, out.String())
	require.Len(t, lines, 1)
	assert.Equal(t, "server failed", lines[0].Msg)
	assert.Contains(t, lines[0].Error, "server stopped")
}

func TestServe(t *testing.T) {
	resetConfig(t)
	New()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, newServer(newRuntime()), ln)
	}()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	var liveness map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&liveness))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "obelix alive", liveness["message"])

	resp, err = http.Post(base+"/logs/third_party_application/access", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	var ack map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ack))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", ack["status"])
	assert.NotEmpty(t, ack["received_at"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
