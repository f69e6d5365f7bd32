package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// watchedServer is an explorer stand-in whose handler must never run for
// usage-error paths.
func watchedServer(t *testing.T) (*httptest.Server, *bool) {
	t.Helper()
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(server.Close)
	return server, &called
}

func TestUnknownMode_UsageErrorNoNetwork(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown exploration mode "frobnicate"`)
	assert.False(t, *called, "no network call expected for an unknown mode")
}

func TestUnknownFlag_UsageErrorNoNetwork(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "-e", "frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
	assert.False(t, *called, "no network call expected for an unknown flag")
}

func TestMissingMode_UsageError(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exploration mode is required")
	assert.False(t, *called)
}

func TestInspect_MissingHashIsUsageError(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "inspect"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction hash")
	assert.False(t, *called)
}

func TestInspect_InvalidHashFailsBeforeNetwork(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "inspect", "frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction hash")
	assert.False(t, *called)
}

func TestAddress_MissingAddressIsUsageError(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bitcoin address")
	assert.False(t, *called)
}

func TestAddress_InvalidAddressFailsBeforeNetwork(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "address", "not-an-address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bitcoin address")
	assert.False(t, *called)
}

func TestUnconfirmed_NonPositiveCountIsUsageError(t *testing.T) {
	server, called := watchedServer(t)

	err := newApp().Run([]string{"btcanalyser", "--api-url", server.URL, "unconfirmed-transactions", "-n", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
	assert.False(t, *called)
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fnErr := fn()
	w.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

func TestOutputJSON_Plain(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return outputJSON(map[string]any{"hash": "abc", "value": 546}, "")
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "abc", decoded["hash"])
	assert.EqualValues(t, 546, decoded["value"])
}

func TestOutputJSON_JQFilter(t *testing.T) {
	out, err := captureStdout(t, func() error {
		return outputJSON(map[string]any{"hash": "abc", "value": 546}, ".hash")
	})
	require.NoError(t, err)
	assert.Equal(t, "\"abc\"\n", out)
}

func TestOutputJSON_JQFilterOverList(t *testing.T) {
	txs := []map[string]any{
		{"hash": "a", "value": 1},
		{"hash": "b", "value": 2},
	}
	out, err := captureStdout(t, func() error {
		return outputJSON(txs, ".[].hash")
	})
	require.NoError(t, err)
	assert.Equal(t, "\"a\"\n\"b\"\n", out)
}

func TestOutputJSON_InvalidJQExpression(t *testing.T) {
	_, err := captureStdout(t, func() error {
		return outputJSON(map[string]any{}, "][")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}
