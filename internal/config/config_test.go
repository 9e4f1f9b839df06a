package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgate/internal/auth"
)

// isolate 避免读到本机用户目录下的配置文件
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)
	for _, k := range []string{"LISTEN", "LOGIN", "CHECK_WORD", "CHECK_WORD_HASH", "TEST_MODE", "LOG_LEVEL", "LOG_DIR", "LOG_RETENTION", "CONFIG"} {
		t.Setenv(EnvPrefix+"_"+k, "")
	}
}

func load(t *testing.T, args ...string) (*Settings, error) {
	t.Helper()
	v := viper.New()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	require.NoError(t, BindFlags(cmd, v))
	require.NoError(t, cmd.ParseFlags(args))
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	s, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, s.Listen)
	assert.Equal(t, auth.DefaultLogin, s.Login)
	assert.Equal(t, auth.DefaultCheckWord, s.CheckWord)
	assert.False(t, s.TestMode)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.Equal(t, 5*24*time.Hour, s.LogRetention)
	assert.Empty(t, s.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "hostgate.yaml")
	require.NoError(t, os.WriteFile(file, []byte("login: fromfile\nlisten: 127.0.0.1:9000\nlog-level: info\n"), 0600))
	t.Setenv("HOSTGATE_LISTEN", "127.0.0.1:9100")

	s, err := load(t, "--config", file, "--log-level", "warn")
	require.NoError(t, err)

	assert.Equal(t, file, s.ConfigFile)
	assert.Equal(t, "fromfile", s.Login)
	assert.Equal(t, "127.0.0.1:9100", s.Listen)
	assert.Equal(t, slog.LevelWarn, s.LogLevel)
}

func TestLoad_TestModeIsExplicit(t *testing.T) {
	isolate(t)
	s, err := load(t, "--test-mode")
	require.NoError(t, err)
	assert.True(t, s.TestMode)
	assert.True(t, s.Verifier(nil).TestMode)
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	_, err := load(t, "--log-level", "loud")
	assert.Error(t, err)

	_, err = load(t, "--login", "", "--log-retention", "0s", "--listen", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login must not be empty")
	assert.Contains(t, err.Error(), "log-retention must be positive")
	assert.Contains(t, err.Error(), "invalid listen address")

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSettings_Verifier(t *testing.T) {
	s := &Settings{Login: "u", CheckWord: "w", CheckWordHash: "h"}
	v := s.Verifier(nil)
	assert.Equal(t, "u", v.Login)
	assert.Equal(t, "w", v.CheckWord)
	assert.Equal(t, "h", v.CheckWordHash)
}
