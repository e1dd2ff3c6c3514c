package postgres

import (
	"context"
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/krazyTry/invariant-go/invariant/state"
	"github.com/krazyTry/invariant-go/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool_address       TEXT PRIMARY KEY,
	token_x            TEXT NOT NULL,
	token_y            TEXT NOT NULL,
	tick_spacing       INTEGER NOT NULL,
	fee                NUMERIC NOT NULL,
	sqrt_price         NUMERIC NOT NULL,
	current_tick_index INTEGER NOT NULL,
	liquidity          NUMERIC NOT NULL,
	data               BYTEA NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS tickmaps (
	tickmap_address TEXT PRIMARY KEY,
	tick_spacing    INTEGER NOT NULL,
	data            BYTEA NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for pool records.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.PoolStore = (*Store)(nil)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

const upsertPool = `
	INSERT INTO pools (
		pool_address, token_x, token_y, tick_spacing, fee, sqrt_price,
		current_tick_index, liquidity, data, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
	ON CONFLICT (pool_address)
	DO UPDATE SET
		token_x = EXCLUDED.token_x,
		token_y = EXCLUDED.token_y,
		tick_spacing = EXCLUDED.tick_spacing,
		fee = EXCLUDED.fee,
		sqrt_price = EXCLUDED.sqrt_price,
		current_tick_index = EXCLUDED.current_tick_index,
		liquidity = EXCLUDED.liquidity,
		data = EXCLUDED.data,
		updated_at = now()
`

func poolArgs(address solanago.PublicKey, pool *state.Pool) ([]any, error) {
	data, err := pool.Encode()
	if err != nil {
		return nil, err
	}
	return []any{
		address.String(),
		pool.TokenX.String(),
		pool.TokenY.String(),
		int32(pool.TickSpacing),
		pool.Fee.String(),
		pool.SqrtPrice().String(),
		pool.CurrentTickIndex(),
		pool.Liquidity().String(),
		data,
	}, nil
}

// SavePool inserts or updates one pool.
func (s *Store) SavePool(ctx context.Context, address solanago.PublicKey, pool *state.Pool) error {
	args, err := poolArgs(address, pool)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, upsertPool, args...)
	return err
}

// SavePools inserts or updates pools in one batch.
func (s *Store) SavePools(ctx context.Context, pools map[solanago.PublicKey]*state.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for address, pool := range pools {
		args, err := poolArgs(address, pool)
		if err != nil {
			return err
		}
		batch.Queue(upsertPool, args...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadPool(ctx context.Context, address solanago.PublicKey) (*state.Pool, error) {
	var data []byte
	row := s.pool.QueryRow(ctx, `SELECT data FROM pools WHERE pool_address=$1`, address.String())
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return state.DecodePool(data)
}

func (s *Store) SaveTickmap(ctx context.Context, address solanago.PublicKey, tickmap *state.Tickmap) error {
	data, err := tickmap.Encode()
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tickmaps (tickmap_address, tick_spacing, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tickmap_address) DO UPDATE
		SET tick_spacing = EXCLUDED.tick_spacing, data = EXCLUDED.data, updated_at = now()
	`, address.String(), int32(tickmap.TickSpacing()), data)
	return err
}

func (s *Store) LoadTickmap(ctx context.Context, address solanago.PublicKey) (*state.Tickmap, error) {
	var data []byte
	row := s.pool.QueryRow(ctx, `SELECT data FROM tickmaps WHERE tickmap_address=$1`, address.String())
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return state.DecodeTickmap(data)
}
