package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, TransportStdio, cfg.Server.Transport)
	require.True(t, cfg.TWSE.ZeroPad)
	require.True(t, cfg.TWSE.StrictStatus)
	require.True(t, cfg.TWSE.BrowserHeaders)
	require.False(t, cfg.TWSE.InsecureSkipVerify)
	require.Equal(t, 10, cfg.TWSE.TimeoutSec)
	require.Equal(t, "❌ ", cfg.Tools.ErrorPrefix)
	require.Equal(t, "全部查詢失敗", cfg.Tools.AllFailedMessage)
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"twse": {"timeout_sec": 5, "zero_pad": false, "strict_status": false},
		"tools": {"error_prefix": "", "omit_failed": true, "all_failed_message": "查詢失敗"}
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.TWSE.TimeoutSec)
	require.False(t, cfg.TWSE.ZeroPad)
	require.False(t, cfg.TWSE.StrictStatus)
	// untouched fields keep defaults
	require.True(t, cfg.TWSE.BrowserHeaders)
	require.Equal(t, "https://mis.twse.com.tw/stock/api/getStockInfo.jsp", cfg.TWSE.Endpoint)
	require.Empty(t, cfg.Tools.ErrorPrefix)
	require.True(t, cfg.Tools.OmitFailed)
	require.Equal(t, "查詢失敗", cfg.Tools.AllFailedMessage)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  transport: http
  port: "9090"
twse:
  insecure_skip_verify: true
  browser_headers: false
  cache_ttl_sec: 3
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, cfg.Server.Transport)
	require.Equal(t, "9090", cfg.Server.Port)
	require.True(t, cfg.TWSE.InsecureSkipVerify)
	require.False(t, cfg.TWSE.BrowserHeaders)
	require.Equal(t, 3, cfg.TWSE.CacheTTLSeconds)
	require.True(t, cfg.TWSE.ZeroPad)
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("PORT", "7000")
	t.Setenv("TWSE_TIMEOUT_SEC", "7")
	t.Setenv("TWSE_ZERO_PAD", "no")
	t.Setenv("TWSE_INSECURE_SKIP_VERIFY", "1")
	t.Setenv("TWSE_MAX_RPM", "30")
	t.Setenv("TWSE_BURST", "bogus")
	t.Setenv("TOOLS_ERROR_PREFIX", "")
	t.Setenv("TOOLS_OMIT_FAILED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, TransportHTTP, cfg.Server.Transport)
	require.Equal(t, "7000", cfg.Server.Port)
	require.Equal(t, 7, cfg.TWSE.TimeoutSec)
	require.False(t, cfg.TWSE.ZeroPad)
	require.True(t, cfg.TWSE.InsecureSkipVerify)
	require.Equal(t, 30, cfg.TWSE.MaxRequestsPerMinute)
	require.Equal(t, 1, cfg.TWSE.Burst)
	require.Empty(t, cfg.Tools.ErrorPrefix)
	require.True(t, cfg.Tools.OmitFailed)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	_, err := Load("")
	require.ErrorContains(t, err, "unknown transport")
}
