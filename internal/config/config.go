package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Server struct {
	// Transport is either "stdio" or "http".
	Transport string `json:"transport" yaml:"transport"`
	Port      string `json:"port" yaml:"port"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
}

// TWSE configures the quote fetcher. The four toggles cover the behavioral
// differences between the historical variants of the tool.
type TWSE struct {
	Endpoint           string `json:"endpoint" yaml:"endpoint"`
	TimeoutSec         int    `json:"timeout_sec" yaml:"timeout_sec"`
	ZeroPad            bool   `json:"zero_pad" yaml:"zero_pad"`
	StrictStatus       bool   `json:"strict_status" yaml:"strict_status"`
	BrowserHeaders     bool   `json:"browser_headers" yaml:"browser_headers"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	MaxRequestsPerMinute  int `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
	MinRequestIntervalSec int `json:"min_request_interval_sec" yaml:"min_request_interval_sec"`
	Burst                 int `json:"burst" yaml:"burst"`
	CacheTTLSeconds       int `json:"cache_ttl_sec" yaml:"cache_ttl_sec"`
	CacheMaxItems         int `json:"cache_max_items" yaml:"cache_max_items"`
}

// Tools configures how lookup results are rendered.
type Tools struct {
	ErrorPrefix      string `json:"error_prefix" yaml:"error_prefix"`
	OmitFailed       bool   `json:"omit_failed" yaml:"omit_failed"`
	AllFailedMessage string `json:"all_failed_message" yaml:"all_failed_message"`
}

type Config struct {
	Server Server `json:"server" yaml:"server"`
	TWSE   TWSE   `json:"twse" yaml:"twse"`
	Tools  Tools  `json:"tools" yaml:"tools"`
}

func Default() Config {
	return Config{
		Server: Server{Transport: TransportStdio, Port: "8080", LogLevel: "INFO"},
		TWSE: TWSE{
			Endpoint:       "https://mis.twse.com.tw/stock/api/getStockInfo.jsp",
			TimeoutSec:     10,
			ZeroPad:        true,
			StrictStatus:   true,
			BrowserHeaders: true,
			Burst:          1,
			CacheMaxItems:  1024,
		},
		Tools: Tools{
			ErrorPrefix:      "❌ ",
			AllFailedMessage: "全部查詢失敗",
		},
	}
}

// Load reads a JSON or YAML config from path, chosen by extension. If path is
// empty, config.json in the working directory is used when present; if no file
// exists, defaults are returned. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				err = yaml.Unmarshal(b, &cfg)
			default:
				err = json.Unmarshal(b, &cfg)
			}
			if err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q", c.Server.Transport)
	}
	if c.TWSE.Endpoint == "" {
		return errors.New("twse.endpoint is required")
	}
	if c.TWSE.TimeoutSec <= 0 {
		return errors.New("twse.timeout_sec must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MCP_TRANSPORT"); v != "" { cfg.Server.Transport = strings.ToLower(v) }
	if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
	if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Server.LogLevel = v }

	if v := os.Getenv("TWSE_ENDPOINT"); v != "" { cfg.TWSE.Endpoint = v }
	if x, ok := envInt("TWSE_TIMEOUT_SEC"); ok && x > 0 { cfg.TWSE.TimeoutSec = x }
	if b, ok := envBool("TWSE_ZERO_PAD"); ok { cfg.TWSE.ZeroPad = b }
	if b, ok := envBool("TWSE_STRICT_STATUS"); ok { cfg.TWSE.StrictStatus = b }
	if b, ok := envBool("TWSE_BROWSER_HEADERS"); ok { cfg.TWSE.BrowserHeaders = b }
	if b, ok := envBool("TWSE_INSECURE_SKIP_VERIFY"); ok { cfg.TWSE.InsecureSkipVerify = b }
	if x, ok := envInt("TWSE_MAX_RPM"); ok && x >= 0 { cfg.TWSE.MaxRequestsPerMinute = x }
	if x, ok := envInt("TWSE_BURST"); ok && x > 0 { cfg.TWSE.Burst = x }
	if x, ok := envInt("TWSE_MIN_INTERVAL_SEC"); ok && x >= 0 { cfg.TWSE.MinRequestIntervalSec = x }
	if x, ok := envInt("TWSE_CACHE_TTL_SEC"); ok && x >= 0 { cfg.TWSE.CacheTTLSeconds = x }
	if x, ok := envInt("TWSE_CACHE_MAX_ITEMS"); ok && x > 0 { cfg.TWSE.CacheMaxItems = x }

	// Presentation; an explicitly empty prefix is allowed, so use LookupEnv.
	if v, ok := os.LookupEnv("TOOLS_ERROR_PREFIX"); ok { cfg.Tools.ErrorPrefix = v }
	if b, ok := envBool("TOOLS_OMIT_FAILED"); ok { cfg.Tools.OmitFailed = b }
	if v := os.Getenv("TOOLS_ALL_FAILED_MESSAGE"); v != "" { cfg.Tools.AllFailedMessage = v }
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" { return 0, false }
	x, err := strconv.Atoi(v)
	if err != nil { return 0, false }
	return x, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}
