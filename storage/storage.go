// Package storage keeps encoded pool and tickmap records keyed by account address.
package storage

import (
	"context"
	"errors"
	"sync"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/invariant-go/invariant/state"
)

var ErrNotFound = errors.New("record not found")

// PoolStore persists pool and tickmap records.
type PoolStore interface {
	SavePool(ctx context.Context, address solanago.PublicKey, pool *state.Pool) error
	LoadPool(ctx context.Context, address solanago.PublicKey) (*state.Pool, error)
	SaveTickmap(ctx context.Context, address solanago.PublicKey, tickmap *state.Tickmap) error
	LoadTickmap(ctx context.Context, address solanago.PublicKey) (*state.Tickmap, error)
}

// MemoryStore holds encoded records in memory. Loads decode a fresh copy, so
// callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	pools    map[solanago.PublicKey][]byte
	tickmaps map[solanago.PublicKey][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pools:    make(map[solanago.PublicKey][]byte),
		tickmaps: make(map[solanago.PublicKey][]byte),
	}
}

func (s *MemoryStore) SavePool(_ context.Context, address solanago.PublicKey, pool *state.Pool) error {
	data, err := pool.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[address] = data
	return nil
}

func (s *MemoryStore) LoadPool(_ context.Context, address solanago.PublicKey) (*state.Pool, error) {
	s.mu.RLock()
	data, ok := s.pools[address]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return state.DecodePool(data)
}

func (s *MemoryStore) SaveTickmap(_ context.Context, address solanago.PublicKey, tickmap *state.Tickmap) error {
	data, err := tickmap.Encode()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickmaps[address] = data
	return nil
}

func (s *MemoryStore) LoadTickmap(_ context.Context, address solanago.PublicKey) (*state.Tickmap, error) {
	s.mu.RLock()
	data, ok := s.tickmaps[address]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return state.DecodeTickmap(data)
}
