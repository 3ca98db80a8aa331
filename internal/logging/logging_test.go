package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupStderr(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := Setup("info", "", &buf)
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger.Debug("hidden")
	logger.WithField("status", "work").Info("switched")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "switched")
	assert.Contains(t, buf.String(), "status=work")
}

func TestSetupBadLevelFallsBackToWarn(t *testing.T) {
	logger, _, err := Setup("loud", "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestSetupFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "track.log")

	logger, closer, err := Setup("debug", path, &buf)
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Debug("to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}

func TestSetupFileError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var buf bytes.Buffer
	logger, closer, err := Setup("warn", filepath.Join(blocker, "track.log"), &buf)
	assert.Error(t, err)
	assert.Nil(t, closer)
	require.NotNil(t, logger)

	logger.Warn("still usable")
	assert.Contains(t, buf.String(), "still usable")
}
