package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		enabled        zapcore.Level
		disabled       zapcore.Level
	}{
		{"default", false, false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"verbose", true, false, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"quiet", false, true, zapcore.ErrorLevel, zapcore.WarnLevel},
		{"verbose wins", true, true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.verbose, tt.quiet)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}
