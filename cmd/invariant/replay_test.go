package main

import (
	"context"
	"fmt"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/krazyTry/invariant-go/invariant"
	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/storage"
)

func script(ops string) []byte {
	return []byte(`{"ops": [` + ops + `]}`)
}

func createOp(t *testing.T) string {
	t.Helper()
	x, y := invariant.SortTokens(solanago.NewWallet().PublicKey(), solanago.NewWallet().PublicKey())
	return fmt.Sprintf(`{"op": "create_pool", "token_x": %q, "token_y": %q, "fee": "0.0005", "tick_spacing": 10, "init_tick": 100}`,
		x.String(), y.String())
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	client := invariant.NewClient(invariant.WithStore(store))

	created, err := replayScript(ctx, client, zap.NewNop(), script(createOp(t)+`,
		{"op": "add_liquidity", "amount": "150"},
		{"op": "remove_liquidity", "amount": "50"},
		{"op": "add_fee", "amount": 1000, "x": true},
		{"op": "add_fee", "amount": 10, "x": false},
		{"op": "set_tick", "tick": -20},
		{"op": "set_tick", "tick": 90},
		{"op": "set_tick", "tick": 5000},
		{"op": "clear_tick", "tick": 90}
	`))
	require.NoError(t, err)

	pool := created.Pool
	require.Equal(t, int32(100), pool.CurrentTickIndex())
	require.Equal(t, "100", pool.Liquidity().String())
	require.Equal(t, decimals.TokenAmount(100), pool.FeeProtocolTokenX())
	require.Equal(t, decimals.TokenAmount(1), pool.FeeProtocolTokenY())
	require.Equal(t, "9", pool.FeeGrowthGlobalX().String())
	require.Equal(t, "0.09", pool.FeeGrowthGlobalY().String())

	require.Equal(t, []int32{-20}, initializedTicks(created.Tickmap, 100, 1_000))
	require.Equal(t, []int32{-20, 5000}, initializedTicks(created.Tickmap, 100, shared.TickSearchRange*100))

	// the store holds the pool as created, replayed ops are not written back
	saved, err := store.LoadPool(ctx, created.Address)
	require.NoError(t, err)
	require.True(t, saved.Liquidity().IsZero())
}

func TestReplayErrors(t *testing.T) {
	ctx := context.Background()
	client := invariant.NewClient()

	cases := []struct {
		name   string
		script []byte
		target error
	}{
		{"invalid json", []byte(`{"ops": [`), nil},
		{"no ops", []byte(`{}`), nil},
		{"empty", script(``), errNoPool},
		{"op before create", script(`{"op": "add_fee", "amount": 1}`), errNoPool},
		{"unknown op", script(createOp(t) + `, {"op": "swap"}`), nil},
		{"remove too much", script(createOp(t) + `, {"op": "remove_liquidity", "amount": "1"}`), shared.ErrInvalidPoolLiquidity},
		{"unaligned tick", script(createOp(t) + `, {"op": "set_tick", "tick": 15}`), shared.ErrTickNotAligned},
		{"created twice", script(createOp(t) + `,` + createOp(t)), nil},
		{"bad token", script(`{"op": "create_pool", "token_x": "nope"}`), nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := replayScript(ctx, client, zap.NewNop(), c.script)
			require.Error(t, err)
			if c.target != nil {
				require.ErrorIs(t, err, c.target)
			}
		})
	}
}
