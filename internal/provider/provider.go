package provider

import (
	"context"
	"fmt"
)

// Quote is the normalized shape of a single real-time stock quote.
// Numeric fields are zero when upstream omits them or sends the "-" placeholder.
type Quote struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PrevClose     float64 `json:"prev_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	// Volume is kept as reported; it is only ever displayed.
	Volume string `json:"volume"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// ChangeText renders the absolute change with an explicit sign, e.g. "+5.00".
func (q Quote) ChangeText() string { return fmt.Sprintf("%+.2f", q.Change) }

// ChangePercentText renders the percent change with an explicit sign, e.g. "-1.25%".
func (q Quote) ChangePercentText() string { return fmt.Sprintf("%+.2f%%", q.ChangePercent) }

// Timestamp joins the upstream date and time strings.
func (q Quote) Timestamp() string { return q.Date + " " + q.Time }

// Provider looks up the current quote for one stock identifier.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, stockID string) (Quote, error)
}
