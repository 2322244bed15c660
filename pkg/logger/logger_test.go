package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitRejectsUnknownLevelAndFormat(t *testing.T) {
	_, err := Init("loud", "json")
	require.Error(t, err)

	_, err = Init("info", "xml")
	require.Error(t, err)
}

func TestInitInstallsGlobal(t *testing.T) {
	l, err := Init("debug", "console")
	require.NoError(t, err)
	require.Same(t, l, L())
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
	require.False(t, l.Core().Enabled(zapcore.DebugLevel-1))
	Sync()
}
