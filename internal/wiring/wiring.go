package wiring

import (
	"strings"
	"time"

	"github.com/effective-security/xlog"
	"github.com/mark3labs/mcp-go/server"

	"twstock/internal/config"
	"twstock/internal/httpx"
	"twstock/internal/provider"
	"twstock/internal/provider/cache"
	"twstock/internal/provider/ratelimit"
	"twstock/internal/provider/twse"
	"twstock/internal/stocktool"
)

var logger = xlog.NewPackageLogger("twstock/internal", "wiring")

// ServerName is advertised to MCP clients.
const ServerName = "Taiwan Stock"

// NewProvider builds the TWSE client and wraps it with the configured
// rate limit and cache.
func NewProvider(cfg config.TWSE) provider.Provider {
	hc := httpx.New(time.Duration(cfg.TimeoutSec)*time.Second, httpx.Options{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})
	if cfg.InsecureSkipVerify {
		logger.KV(xlog.WARNING, "status", "tls_verification_disabled", "endpoint", cfg.Endpoint)
	}

	opts := []twse.ClientOption{
		twse.WithHTTPClient(hc),
		twse.WithEndpoint(cfg.Endpoint),
		twse.WithZeroPad(cfg.ZeroPad),
		twse.WithStrictStatus(cfg.StrictStatus),
	}
	if cfg.BrowserHeaders {
		opts = append(opts, twse.WithBrowserHeaders())
	}

	var p provider.Provider = twse.NewClient(opts...)
	// Prefer token bucket with burst if RPM is set, otherwise use min-interval
	if cfg.MaxRequestsPerMinute > 0 {
		p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.PerMinute(cfg.MaxRequestsPerMinute, cfg.Burst)}
	} else if cfg.MinRequestIntervalSec > 0 {
		p = &ratelimit.MinInterval{P: p, Interval: time.Duration(cfg.MinRequestIntervalSec) * time.Second}
	}
	if cfg.CacheTTLSeconds > 0 {
		p = &cache.Provider{P: p, TTL: time.Duration(cfg.CacheTTLSeconds) * time.Second, MaxItems: cfg.CacheMaxItems}
	}
	return p
}

// NewService builds the tool service from configuration.
func NewService(cfg config.Config) *stocktool.Service {
	return stocktool.New(NewProvider(cfg.TWSE), stocktool.Options{
		ErrorPrefix:      cfg.Tools.ErrorPrefix,
		OmitFailed:       cfg.Tools.OmitFailed,
		AllFailedMessage: cfg.Tools.AllFailedMessage,
	})
}

// NewMCPServer creates the MCP server and registers svc's tools on it.
func NewMCPServer(svc *stocktool.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	svc.Register(s)
	return s
}

// LogLevel maps a configured level name to xlog.
func LogLevel(name string) xlog.LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return xlog.TRACE
	case "DEBUG":
		return xlog.DEBUG
	case "NOTICE":
		return xlog.NOTICE
	case "WARNING", "WARN":
		return xlog.WARNING
	case "ERROR":
		return xlog.ERROR
	case "CRITICAL":
		return xlog.CRITICAL
	default:
		return xlog.INFO
	}
}
