package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/modhub-backend/internal/config"
)

func TestSetupLevelAndFormat(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)

	Setup(config.LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	_, isJSON := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	Setup(config.LogConfig{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestOutputWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modhub.log")
	w := Output(config.LogConfig{File: path})

	_, err := w.Write([]byte("hello\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	assert.Equal(t, os.Stdout, Output(config.LogConfig{}))
}
