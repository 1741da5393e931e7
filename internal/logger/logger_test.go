package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "spotify.log")
	require.NoError(t, Init(Config{Level: InfoLevel, OutputPath: path}))
	t.Cleanup(func() { globalLogger = zap.NewNop() })

	L().Info("Plot saved", zap.String("path", "top_artists.png"))
	L().Debug("not written at info level")
	Sync()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"msg":"Plot saved"`)
	assert.Contains(t, string(contents), `"path":"top_artists.png"`)
	assert.NotContains(t, string(contents), "not written")
}

func TestErrorsHaveNoStacktrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotify.log")
	require.NoError(t, Init(Config{Level: InfoLevel, OutputPath: path}))
	t.Cleanup(func() { globalLogger = zap.NewNop() })

	L().Error("The provided filepath does not exist.", zap.String("path", "MyData"))
	Sync()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `"level":"error"`)
	assert.NotContains(t, string(contents), "stacktrace")
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestLDefaultsToNop(t *testing.T) {
	assert.NotNil(t, L())
}
