package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv 隔离开发机上的同名变量。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOST", "PORT", "BASE_PATH", "RECORDS_DIR", "READ_TOKEN", "TOKEN_SOURCE",
		"TOKEN_FILE", "MASK_PII", "STRICT_LEAD_FIELDS", "SERIALIZE_WRITES", "LIST_LIMIT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "logs/call_logs", cfg.RecordsDir)
	require.False(t, cfg.MaskPII)
	require.Empty(t, cfg.ReadToken)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TOKEN", "  s3cret ")
	t.Setenv("MASK_PII", "TRUE")
	t.Setenv("SERIALIZE_WRITES", "false")
	t.Setenv("LIST_LIMIT", "5")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "s3cret", cfg.ReadToken)
	require.True(t, cfg.MaskPII)
	require.False(t, cfg.SerializeWrites)
	require.Equal(t, 5, cfg.ListLimit)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("PORT=7070\nMASK_PII=true\n"), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
	require.True(t, cfg.MaskPII)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("READ_TOKEN", "env_token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9191
read_token: file_token
mask_pii: true
records_dir: /tmp/records
`), 0o600))

	cfg, err := Load([]string{"-config", path, "-port", "9292"})
	require.NoError(t, err)
	require.Equal(t, 9292, cfg.Port, "显式 flag 优先")
	require.Equal(t, "file_token", cfg.ReadToken, "配置文件覆盖环境变量")
	require.True(t, cfg.MaskPII)
	require.Equal(t, "/tmp/records", cfg.RecordsDir)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "abc")
	_, err := Load(nil)
	require.Error(t, err)
	t.Setenv("PORT", "")

	_, err = Load([]string{"-list-limit", "0"})
	require.Error(t, err)

	_, err = Load([]string{"-token-source", "file"})
	require.Error(t, err)

	_, err = Load([]string{"-token-source", "vault"})
	require.Error(t, err)

	_, err = Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = Load([]string{"-config", empty})
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "Yes", " true "} {
		require.True(t, ParseBool(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "on"} {
		require.False(t, ParseBool(v), v)
	}
}
