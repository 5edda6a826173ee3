package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevelSelection(t *testing.T) {
	t.Run("unset LOG_LEVEL keeps the info default", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		assert.Equal(t, zerolog.InfoLevel, New("test").GetLevel())
	})

	t.Run("valid LOG_LEVEL is honored", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		assert.Equal(t, zerolog.DebugLevel, New("test").GetLevel())
	})

	t.Run("garbage LOG_LEVEL falls back to info", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		assert.Equal(t, zerolog.InfoLevel, New("test").GetLevel())
	})
}

func TestNewEmitsAtInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	log := New("test")
	assert.True(t, log.Info().Enabled(), "info events must not be dropped in the default configuration")
	assert.False(t, log.Debug().Enabled())
}
