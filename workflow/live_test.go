package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baraka/dse2db/scrape"
)

type fakeChecker struct {
	prices    map[string]float64
	triggered int
	err       error
}

func (c *fakeChecker) Check(ctx context.Context, prices map[string]float64) (int, error) {
	c.prices = prices
	return c.triggered, c.err
}

func TestLivePipelineStoresQuotes(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{quotes: []scrape.LiveQuoteItem{
		{Company: "CRDB", Price: "1,190.00", Change: "+20.00"},
		{Company: "VERTEX-ETF", Price: "520.00", Change: "-5.00"},
	}}
	checker := &fakeChecker{triggered: 1}

	p := NewLivePipeline(fetcher, store, nil, checker)
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, 2, result.StockCount)

	require.Len(t, store.quotes, 2)
	assert.Equal(t, "CRDB", store.quotes[0].Symbol)
	assert.Equal(t, 1190.0, store.quotes[0].Price)
	assert.Equal(t, 20.0, store.quotes[0].Change)
	assert.Equal(t, "VERTEX ETF", store.quotes[1].Symbol, "symbols normalized before persistence")

	// the checker sees current prices, price plus change
	assert.Equal(t, 1210.0, checker.prices["CRDB"])
	assert.Equal(t, 515.0, checker.prices["VERTEX ETF"])
}

func TestLivePipelineFetchError(t *testing.T) {
	store := newFakeStore()
	p := NewLivePipeline(&fakeFetcher{liveErr: errors.New("timeout")}, store, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Fetch error: timeout", result.Message)
	assert.Empty(t, store.quotes)
}

func TestLivePipelineCheckerFailureKeepsSnapshot(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{quotes: []scrape.LiveQuoteItem{{Company: "CRDB", Price: "1,190.00", Change: "0"}}}
	checker := &fakeChecker{err: errors.New("store down")}

	p := NewLivePipeline(fetcher, store, nil, checker)
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, result.Status, "alert failure must not fail the snapshot")
	assert.Len(t, store.quotes, 1)
}

func TestLivePipelineNoChecker(t *testing.T) {
	store := newFakeStore()
	fetcher := &fakeFetcher{quotes: []scrape.LiveQuoteItem{{Company: "CRDB", Price: "1,190.00", Change: "0"}}}

	p := NewLivePipeline(fetcher, store, nil, nil)
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, result.Status)
}

func TestLivePipelineEmptyFeed(t *testing.T) {
	store := newFakeStore()
	p := NewLivePipeline(&fakeFetcher{}, store, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, result.Status)
	assert.Equal(t, 0, result.StockCount)
	assert.Empty(t, store.quotes)
}
