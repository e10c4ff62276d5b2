package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfoReturnsSeededToken(t *testing.T) {
	e, _ := newTestEngine(t)

	token, err := e.GetInfo(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "HelgyKoin", token.Name)
	require.Equal(t, "HKN", token.Symbol)
	require.Equal(t, 8, token.Decimals)
	requireDecEqual(t, "1000000000", token.TotalSupply)
	requireDecEqual(t, "0.0001", token.CurrentPrice)
}

func TestSetPricePolicy(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// Negative prices are rejected
	require.ErrorIs(t, e.SetPrice(ctx, dec("-0.01")), ErrInvalidPrice)

	// Zero is a valid price: the token can be marked worthless
	require.NoError(t, e.SetPrice(ctx, dec("0")))
	token, err := e.GetInfo(ctx, false)
	require.NoError(t, err)
	requireDecEqual(t, "0", token.CurrentPrice)

	require.NoError(t, e.SetPrice(ctx, dec("0.0005")))
	token, err = e.GetInfo(ctx, false)
	require.NoError(t, err)
	requireDecEqual(t, "0.0005", token.CurrentPrice)
}

func TestSetPriceInvalidatesCache(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// Prime the cache, then change the price behind it
	_, err := e.GetInfo(ctx, true)
	require.NoError(t, err)
	require.NoError(t, e.SetPrice(ctx, dec("0.5")))

	token, err := e.GetInfo(ctx, true)
	require.NoError(t, err)
	requireDecEqual(t, "0.5", token.CurrentPrice)
}

func TestMarketCap(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// 1,000,000,000 x 0.0001
	marketCap, err := e.MarketCap(ctx)
	require.NoError(t, err)
	requireDecEqual(t, "100000", marketCap)

	// Both supply and price changes feed the derivation
	_, err = e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, e.Mint(ctx, 1, dec("1000000000")))
	require.NoError(t, e.SetPrice(ctx, dec("0.001")))

	marketCap, err = e.MarketCap(ctx)
	require.NoError(t, err)
	requireDecEqual(t, "2000000", marketCap)
}
