package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"twstock/internal/provider"
)

type fakeProvider struct{ calls int }

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Fetch(_ context.Context, stockID string) (provider.Quote, error) {
	f.calls++
	return provider.Quote{Code: stockID}, nil
}

func TestTokenBucket_BurstThenCancel(t *testing.T) {
	p := &fakeProvider{}
	tb := &TokenBucketProvider{P: p, TB: PerMinute(1, 2)}

	// Two tokens available up front.
	for range 2 {
		_, err := tb.Fetch(t.Context(), "2330")
		require.NoError(t, err)
	}

	// The third call has to wait a minute; cancel instead.
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := tb.Fetch(ctx, "2330")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 2, p.calls)
	require.Equal(t, "fake", tb.Name())
}

func TestTokenBucket_Refills(t *testing.T) {
	tb := NewTokenBucket(100, 1)
	require.NoError(t, tb.Wait(t.Context()))

	start := time.Now()
	require.NoError(t, tb.Wait(t.Context()))
	require.Less(t, time.Since(start), time.Second)
}

func TestMinInterval(t *testing.T) {
	p := &fakeProvider{}
	m := &MinInterval{P: p, Interval: 30 * time.Millisecond}

	start := time.Now()
	_, err := m.Fetch(t.Context(), "2330")
	require.NoError(t, err)
	_, err = m.Fetch(t.Context(), "2454")
	require.NoError(t, err)

	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	require.Equal(t, 2, p.calls)
}

func TestMinInterval_Canceled(t *testing.T) {
	p := &fakeProvider{}
	m := &MinInterval{P: p, Interval: time.Minute}

	_, err := m.Fetch(t.Context(), "2330")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = m.Fetch(ctx, "2330")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, p.calls)
}
