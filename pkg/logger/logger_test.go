package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_AddsComponentAndFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("not-a-level", "dashboard", &buf)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	log.WithField("method", "Refresh").Info("Occurrences refreshed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "dashboard", entry["component"])
	assert.Equal(t, "Refresh", entry["method"])
	assert.Equal(t, "Occurrences refreshed", entry["msg"])
}
