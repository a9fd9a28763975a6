package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"voxform/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
	}
	for name, want := range cases {
		l := logger.New(name, "json")
		assert.True(t, l.Core().Enabled(want), name)
		if want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(want-1), name)
		}
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	l := logger.New("info", "console")
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}
