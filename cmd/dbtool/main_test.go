package main

import (
	"bytes"
	"io"
	"testing"
	"truck-trip-service/internal/config"
	"truck-trip-service/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}}
}

func TestRunInitAndList(t *testing.T) {
	var out bytes.Buffer
	logger := logging.NewLogger(io.Discard, logging.ParseLevel("error"), "text")

	require.NoError(t, run(memoryConfig(), true, true, 10, "", &out, logger))
	assert.Contains(t, out.String(), "DISTANCE_MI")
}

func TestRunLogsUnknownTrip(t *testing.T) {
	var out bytes.Buffer
	logger := logging.NewLogger(io.Discard, logging.ParseLevel("error"), "text")

	err := run(memoryConfig(), true, false, 10, "missing", &out, logger)
	assert.Error(t, err)
}

func TestRunUnsupportedDriver(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "mysql"}}
	logger := logging.NewLogger(io.Discard, logging.ParseLevel("error"), "text")

	assert.Error(t, run(cfg, true, false, 10, "", io.Discard, logger))
}
