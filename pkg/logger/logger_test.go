package logger

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsOnBadLevel(t *testing.T) {
	log, err := New(Config{Level: "nonsense", Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestErrorEntriesGoToStderr(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout, os.Stderr = outW, errW
	defer func() { os.Stdout, os.Stderr = origOut, origErr }()

	log, err := New(Config{Level: "info", Format: "json"})
	require.NoError(t, err)

	log.Info("routine message")
	log.Error("failure message")

	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())
	outBytes, err := io.ReadAll(outR)
	require.NoError(t, err)
	errBytes, err := io.ReadAll(errR)
	require.NoError(t, err)

	assert.Contains(t, string(outBytes), "routine message")
	assert.NotContains(t, string(outBytes), "failure message")
	assert.Contains(t, string(errBytes), "failure message")
	assert.NotContains(t, string(errBytes), "routine message")
}
