package stocktool

import (
	"context"
	"strings"

	"github.com/effective-security/xlog"

	"twstock/internal/provider"
)

var logger = xlog.NewPackageLogger("twstock/internal", "stocktool")

// Options controls how failures are rendered.
type Options struct {
	// ErrorPrefix is put in front of a failed single lookup, e.g. "❌ ".
	ErrorPrefix string
	// OmitFailed drops failed identifiers from a comparison instead of
	// listing them with their error.
	OmitFailed bool
	// AllFailedMessage is returned when a comparison produced no lines.
	AllFailedMessage string
}

// DefaultOptions matches the stock tool's long-standing output.
func DefaultOptions() Options {
	return Options{
		ErrorPrefix:      "❌ ",
		AllFailedMessage: "全部查詢失敗",
	}
}

// Service answers the quote tools. It always returns text; lookup failures
// are described in the text rather than returned as errors.
type Service struct {
	p    provider.Provider
	opts Options
}

func New(p provider.Provider, opts Options) *Service {
	return &Service{p: p, opts: opts}
}

// GetStockPrice returns the formatted quote for one identifier.
func (s *Service) GetStockPrice(ctx context.Context, stockID string) string {
	q, err := s.p.Fetch(ctx, stockID)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"tool", ToolGetStockPrice,
			"stock_id", stockID,
			"err", err.Error())
		return s.opts.ErrorPrefix + ErrorMessage(err)
	}
	return FormatQuote(q)
}

// CompareStocks looks up each comma-separated identifier in order, one at a
// time, and returns one line per identifier.
func (s *Service) CompareStocks(ctx context.Context, stockIDs string) string {
	ids := strings.Split(stockIDs, ",")
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		q, err := s.p.Fetch(ctx, id)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"tool", ToolCompareStocks,
				"stock_id", id,
				"err", err.Error())
			if !s.opts.OmitFailed {
				lines = append(lines, id+": "+ErrorMessage(err))
			}
			continue
		}
		lines = append(lines, FormatCompareLine(q))
	}
	if len(lines) == 0 {
		return s.opts.AllFailedMessage
	}
	return strings.Join(lines, "\n")
}
