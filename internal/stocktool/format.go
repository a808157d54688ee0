package stocktool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"twstock/internal/provider"
	"twstock/internal/provider/twse"
)

// formatPrice renders a price the way the tool has always shown it:
// shortest decimal form, with ".0" kept on whole numbers (580.0, 1085.5).
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// FormatQuote renders the single lookup block.
func FormatQuote(q provider.Quote) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "【%s (%s)】\n", q.Name, q.Code)
	fmt.Fprintf(&b, "成交價: %s 元\n", formatPrice(q.Price))
	fmt.Fprintf(&b, "漲跌: %s (%s)\n", q.ChangeText(), q.ChangePercentText())
	fmt.Fprintf(&b, "開盤: %s | 最高: %s | 最低: %s\n", formatPrice(q.Open), formatPrice(q.High), formatPrice(q.Low))
	fmt.Fprintf(&b, "成交量: %s 股\n", q.Volume)
	fmt.Fprintf(&b, "更新時間: %s\n", q.Timestamp())
	return b.String()
}

// FormatCompareLine renders one successful quote in the comparison list.
func FormatCompareLine(q provider.Quote) string {
	return fmt.Sprintf("%s(%s): %s元 %s (%s)", q.Name, q.Code, formatPrice(q.Price), q.ChangeText(), q.ChangePercentText())
}

// ErrorMessage turns a lookup failure into the text shown to the caller.
func ErrorMessage(err error) string {
	var apiErr *twse.APIError
	if errors.As(err, &apiErr) {
		return "API 錯誤碼: " + apiErr.Code
	}
	var nf *twse.NotFoundError
	if errors.As(err, &nf) {
		return "查無股票 " + nf.StockID
	}
	return "請求失敗: " + err.Error()
}
