package main

import (
	"context"
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/krazyTry/invariant-go/invariant"
	"github.com/krazyTry/invariant-go/invariant/decimals"
	"github.com/krazyTry/invariant-go/invariant/shared"
	"github.com/krazyTry/invariant-go/invariant/state"
)

var errNoPool = errors.New("pool not created")

// replayScript applies the ops of a JSON script in order:
//
//	{"ops": [
//	  {"op": "create_pool", "token_x": "...", "token_y": "...", "fee": "0.0005", "tick_spacing": 10, "init_tick": 0},
//	  {"op": "add_liquidity", "amount": "100.5"},
//	  {"op": "add_fee", "amount": 1000, "x": true},
//	  {"op": "set_tick", "tick": 20}
//	]}
//
// The first op must create the pool. Replay stops at the first failing op.
func replayScript(ctx context.Context, client *invariant.Client, logger *zap.Logger, script []byte) (*invariant.CreatedPool, error) {
	if !gjson.ValidBytes(script) {
		return nil, errors.New("invalid script json")
	}
	ops := gjson.GetBytes(script, "ops")
	if !ops.IsArray() {
		return nil, errors.New("script has no ops array")
	}

	var created *invariant.CreatedPool
	for i, op := range ops.Array() {
		name := op.Get("op").String()
		var err error
		switch {
		case name == "create_pool":
			if created != nil {
				err = errors.New("pool already created")
				break
			}
			created, err = replayCreatePool(ctx, client, op)
		case created == nil:
			err = errNoPool
		default:
			err = applyOp(client, created, name, op)
		}
		if err != nil {
			return nil, fmt.Errorf("op %d %s: %w", i, name, err)
		}
		logger.Debug("op applied", zap.Int("index", i), zap.String("op", name))
	}
	if created == nil {
		return nil, errNoPool
	}
	return created, nil
}

func replayCreatePool(ctx context.Context, client *invariant.Client, op gjson.Result) (*invariant.CreatedPool, error) {
	tokenX, err := solanago.PublicKeyFromBase58(op.Get("token_x").String())
	if err != nil {
		return nil, fmt.Errorf("token_x: %w", err)
	}
	tokenY, err := solanago.PublicKeyFromBase58(op.Get("token_y").String())
	if err != nil {
		return nil, fmt.Errorf("token_y: %w", err)
	}
	fee, err := decimals.ParseFixedPoint(op.Get("fee").String())
	if err != nil {
		return nil, fmt.Errorf("fee: %w", err)
	}
	var tickmap solanago.PublicKey
	if raw := op.Get("tickmap"); raw.Exists() {
		if tickmap, err = solanago.PublicKeyFromBase58(raw.String()); err != nil {
			return nil, fmt.Errorf("tickmap: %w", err)
		}
	}

	return client.CreatePool(ctx, invariant.CreatePoolParams{
		TokenX:   tokenX,
		TokenY:   tokenY,
		Tickmap:  tickmap,
		FeeTier:  state.FeeTier{Fee: fee, TickSpacing: uint16(op.Get("tick_spacing").Uint())},
		InitTick: int32(op.Get("init_tick").Int()),
	})
}

func applyOp(client *invariant.Client, created *invariant.CreatedPool, name string, op gjson.Result) error {
	switch name {
	case "add_liquidity", "remove_liquidity":
		l, err := decimals.ParseLiquidity(op.Get("amount").String())
		if err != nil {
			return err
		}
		return created.Pool.UpdateLiquiditySafely(l, name == "add_liquidity")
	case "add_fee":
		return client.AccrueFee(created.Pool, decimals.TokenAmount(op.Get("amount").Uint()), op.Get("x").Bool())
	case "set_tick":
		return created.Tickmap.Set(int32(op.Get("tick").Int()))
	case "clear_tick":
		return created.Tickmap.Clear(int32(op.Get("tick").Int()))
	default:
		return fmt.Errorf("unknown op %q", name)
	}
}

// initializedTicks lists the set ticks of m no further than limit from tick,
// lowest first.
func initializedTicks(m *state.Tickmap, from, limit int32) []int32 {
	var out []int32
	tick, ok := m.NextInitialized(from-limit-1, shared.DirectionUp)
	for ok && tick <= from+limit {
		out = append(out, tick)
		tick, ok = m.NextInitialized(tick, shared.DirectionUp)
	}
	return out
}
