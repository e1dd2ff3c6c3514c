package postgres

import (
	"context"
	"os"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/state"
	"github.com/krazyTry/invariant-go/storage"
)

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

// Runs against a real database when INVARIANT_TEST_PG_DSN is set.
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("INVARIANT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("INVARIANT_TEST_PG_DSN not set")
	}
	ctx := context.Background()

	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	address := solanago.NewWallet().PublicKey()
	_, err = store.LoadPool(ctx, address)
	require.ErrorIs(t, err, storage.ErrNotFound)

	fee, err := decimals.FixedPointFromScale(1, 2)
	require.NoError(t, err)
	pool, err := state.NewPool(state.PoolParams{
		TokenX:   solanago.NewWallet().PublicKey(),
		TokenY:   solanago.NewWallet().PublicKey(),
		FeeTier:  state.FeeTier{Fee: fee, TickSpacing: 1},
		InitTick: -5,
	})
	require.NoError(t, err)
	require.NoError(t, store.SavePools(ctx, map[solanago.PublicKey]*state.Pool{address: pool}))

	loaded, err := store.LoadPool(ctx, address)
	require.NoError(t, err)
	require.Equal(t, pool, loaded)

	tickmap, err := state.NewTickmap(1)
	require.NoError(t, err)
	require.NoError(t, tickmap.Set(-5))
	require.NoError(t, store.SaveTickmap(ctx, pool.Tickmap, tickmap))

	loadedTickmap, err := store.LoadTickmap(ctx, pool.Tickmap)
	require.NoError(t, err)
	require.Equal(t, tickmap, loadedTickmap)
}
