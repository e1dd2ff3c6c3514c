// Package invariantgo re-exports the entry points of the pool core.
package invariantgo

import (
	"github.com/krazyTry/invariant-go/invariant"
	"github.com/krazyTry/invariant-go/invariant/math"
	"github.com/krazyTry/invariant-go/storage"
)

// NewClient creates a pool client.
//
// Example:
//
// client := NewClient(invariant.WithRPC(rpcClient), invariant.WithStore(NewMemoryStore()))
//
// created, _ := client.CreatePool(ctx, invariant.CreatePoolParams{TokenX: x, TokenY: y, FeeTier: tier})
//
// client.AccrueFee(created.Pool, 1_000, true)
var NewClient = invariant.NewClient

// NewMemoryStore creates an in-memory pool store.
var NewMemoryStore = storage.NewMemoryStore

// CalculatePriceSqrt returns the square root price of a tick.
var CalculatePriceSqrt = math.CalculatePriceSqrt
