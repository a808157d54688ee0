package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"

	"twstock/internal/provider"
)

var logger = xlog.NewPackageLogger("twstock/internal/provider", "twse")

// SuccessCode is the rtcode the API returns for a successful query.
const SuccessCode = "0000"

// APIError is returned when the API answers with a non-success rtcode.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected rtcode %q: %s", e.Code, e.Message)
}

// NotFoundError is returned when the API knows nothing about the identifier.
type NotFoundError struct {
	// StockID is the identifier as it was sent upstream.
	StockID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stock %s not found", e.StockID)
}

// StatusError is returned for non-2xx responses when strict status checking is on.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

type stockInfoResponse struct {
	RtCode    string           `json:"rtcode"`
	RtMessage string           `json:"rtmessage"`
	MsgArray  []map[string]any `json:"msgArray"`
}

// NormalizeID trims the identifier and, when zeroPad is set, left-pads it
// with zeros to four characters. Longer identifiers are left as they are.
func NormalizeID(stockID string, zeroPad bool) string {
	id := strings.TrimSpace(stockID)
	if zeroPad {
		if n := utf8.RuneCountInString(id); n < 4 {
			id = strings.Repeat("0", 4-n) + id
		}
	}
	return id
}

// URL returns the query URL for an already normalized identifier.
func (c *Client) URL(stockID string) string {
	return fmt.Sprintf("%s?json=1&delay=0&ex_ch=tse_%s.tw", c.endpoint, url.QueryEscape(stockID))
}

// Fetch retrieves the current quote for stockID.
func (c *Client) Fetch(ctx context.Context, stockID string) (provider.Quote, error) {
	id := NormalizeID(stockID, c.zeroPad)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(id), http.NoBody)
	if err != nil {
		return provider.Quote{}, errors.Wrap(err, "creating request")
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return provider.Quote{}, errors.Wrap(err, "performing request")
	}
	defer res.Body.Close()

	logger.ContextKV(ctx, xlog.DEBUG,
		"stock_id", id,
		"status", res.StatusCode)

	if c.strictStatus && (res.StatusCode < 200 || res.StatusCode >= 300) {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return provider.Quote{}, &StatusError{StatusCode: res.StatusCode, Body: string(b)}
	}

	var body stockInfoResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return provider.Quote{}, errors.Wrap(err, "decoding stock info response")
	}

	if body.RtCode != SuccessCode {
		logger.ContextKV(ctx, xlog.WARNING,
			"stock_id", id,
			"rtcode", body.RtCode,
			"rtmessage", body.RtMessage)
		return provider.Quote{}, &APIError{Code: body.RtCode, Message: body.RtMessage}
	}

	if len(body.MsgArray) == 0 {
		return provider.Quote{}, &NotFoundError{StockID: id}
	}

	return parseQuote(body.MsgArray[0]), nil
}

func parseQuote(item map[string]any) provider.Quote {
	// {
	//   "c": "2330", "n": "台積電", "z": "1085.0000", "o": "1080.0000",
	//   "h": "1090.0000", "l": "1075.0000", "y": "1070.0000",
	//   "v": "23456", "d": "20250102", "t": "13:30:00"
	// }
	price := floatField(item, "z")
	prevClose := floatField(item, "y")

	change := price - prevClose
	var changePercent float64
	if prevClose > 0 {
		changePercent = change / prevClose * 100
	}

	return provider.Quote{
		Code:          stringField(item, "c", ""),
		Name:          stringField(item, "n", ""),
		Price:         price,
		Open:          floatField(item, "o"),
		High:          floatField(item, "h"),
		Low:           floatField(item, "l"),
		PrevClose:     prevClose,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        stringField(item, "v", "0"),
		Date:          stringField(item, "d", ""),
		Time:          stringField(item, "t", ""),
	}
}

// floatField reads a numeric field. Missing, empty, "-" and unparsable
// values all read as zero.
func floatField(item map[string]any, key string) float64 {
	switch v := item[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" || s == "-" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	default:
		return 0
	}
}

func stringField(item map[string]any, key, def string) string {
	switch v := item[key].(type) {
	case nil:
		return def
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
