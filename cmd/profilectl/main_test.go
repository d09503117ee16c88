package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProfilectlScrapeAndShow(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><head><title>Acme</title></head><body>Mail info@acme.in</body></html>`))
	}))
	defer site.Close()

	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	_, err := execute(t, "migrate", "--sqlite-path", dbPath)
	require.NoError(t, err)

	out, err := execute(t, "scrape", site.URL, "--sqlite-path", dbPath)
	require.NoError(t, err)

	var envelope struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
		Data    struct {
			Website string  `json:"website"`
			Name    string  `json:"name"`
			Email   string  `json:"email"`
			About   *string `json:"about"`
		} `json:"data"`
		Meta struct {
			Source string `json:"source"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "partial", envelope.Status)
	assert.Equal(t, "Acme", envelope.Data.Name)
	assert.Equal(t, "info@acme.in", envelope.Data.Email)
	assert.Nil(t, envelope.Data.About)
	assert.Equal(t, "http+deep-pages", envelope.Meta.Source)

	out, err = execute(t, "show", site.URL, "--sqlite-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Acme"`)

	_, err = execute(t, "show", "https://unknown.example", "--sqlite-path", dbPath)
	assert.Error(t, err)
}

func TestProfilectlScrapeFailurePrintsEnvelope(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer site.Close()

	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "cli.db")

	out, err := execute(t, "scrape", site.URL, "--sqlite-path", dbPath)
	require.Error(t, err)
	assert.Contains(t, out, `"SCRAPE_FAILED"`)
	assert.Contains(t, out, `"success": false`)
}
