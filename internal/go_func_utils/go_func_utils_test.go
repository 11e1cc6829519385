package go_func_utils

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeCall_ReturnsAndLogsError(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	err := SafeCall(logger, "vibrate", func() error { return errors.New("no motor") })
	require.Error(t, err)
	assert.Contains(t, buf.String(), "vibrate failed: no motor")
}

func TestSafeCall_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	err := SafeCall(logger, "play cue", func() error { panic("sound device gone") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sound device gone")
	assert.Contains(t, buf.String(), "PANIC in play cue")
}

func TestSafeCall_Success(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	called := false
	err := SafeCall(logger, "noop", func() error { called = true; return nil })
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, buf.String())
}

func TestSafeGo_Runs(t *testing.T) {
	logger := log.New(&bytes.Buffer{}, "", 0)
	done := make(chan struct{})
	SafeGo(logger, func() { close(done) })
	<-done
}
