// Package storage persists named string slots and the portal document kept in one of them.
package storage

import (
	"context"
	"errors"
)

// SlotStore is a durable key/value area holding whole string values under named slots.
// Writes overwrite; there is no versioning and the last writer wins.
type SlotStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var ErrEmptyKey = errors.New("storage: empty slot key")

// Slot binds a SlotStore to a single key.
type Slot struct {
	store SlotStore
	key   string
}

func NewSlot(store SlotStore, key string) *Slot {
	return &Slot{store: store, key: key}
}

func (s *Slot) Key() string {
	return s.key
}

func (s *Slot) Get(ctx context.Context) (string, bool, error) {
	return s.store.Get(ctx, s.key)
}

func (s *Slot) Set(ctx context.Context, value string) error {
	return s.store.Set(ctx, s.key, value)
}

func (s *Slot) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}
