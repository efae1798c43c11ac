package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"mailagent/dashboard/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LogConfig{Level: "warn", Development: true, File: "logs/app.log"})

	assert.Equal(t, "warn", cfg.Level)
	assert.True(t, cfg.Development)
	assert.Equal(t, "logs/app.log", cfg.LogFile)
	assert.Equal(t, defaultMaxSize, cfg.MaxSize)
	assert.Equal(t, defaultMaxBackups, cfg.MaxBackups)
	assert.Equal(t, defaultMaxAge, cfg.MaxAge)
	assert.True(t, cfg.Compress)
}

func TestNewLogger(t *testing.T) {
	t.Run("未知级别回退到 info", func(t *testing.T) {
		logger, err := NewLogger(Config{Level: "verbose"})
		require.NoError(t, err)

		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("写入日志文件", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "nested", "app.log")

		logger, err := NewLogger(Config{Level: "debug", LogFile: file, MaxSize: 1})
		require.NoError(t, err)

		logger.Info("hello")
		_ = logger.Sync()

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
		assert.Contains(t, string(data), `"logger":"mailagent"`)
	})

	t.Run("开发模式", func(t *testing.T) {
		logger := NewDevelopmentLogger()
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})
}
