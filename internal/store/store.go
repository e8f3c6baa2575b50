// Package store persists the date -> shipment count mapping.
//
// The whole mapping lives as one JSON object under a single key of a KV
// backend. Every mutation rewrites the full document, so the serialized
// form and what Load returns never disagree.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"shiplog/internal/core"
	applog "shiplog/internal/log"
)

// DefaultKey is the durable key holding the JSON document.
const DefaultKey = "shipmentData"

type Store struct {
	mu  sync.Mutex
	kv  KV
	key string
	log *slog.Logger
}

// Option customises a Store.
type Option func(*Store)

// WithLogger sets the logger, by default slog's default tagged with the
// storage component.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		key: DefaultKey,
		log: slog.Default().With(applog.FieldComponent, applog.ComponentStorage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current mapping.
//
// It never fails: a missing key, a backend read error or a document that
// does not decode all yield an empty mapping. Corrupt data is treated as
// absent data so that editing stays possible.
func (s *Store) Load(ctx context.Context) core.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) core.Mapping {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.WarnContext(ctx, "Store read failed, continuing with empty data",
			"key", s.key, applog.FieldError, err)
		return core.Mapping{}
	}
	if !ok || len(raw) == 0 {
		return core.Mapping{}
	}

	var m core.Mapping
	if err := json.Unmarshal(raw, &m); err != nil {
		s.log.WarnContext(ctx, "Stored shipment data is corrupt, treating as empty",
			"key", s.key, "bytes", len(raw), "error", err)
		return core.Mapping{}
	}
	if m == nil {
		m = core.Mapping{}
	}
	return m
}

// Get returns the stored count for date.
func (s *Store) Get(ctx context.Context, date core.Date) (int, bool) {
	m := s.Load(ctx)
	n, ok := m[date.Key()]
	return n, ok
}

// Upsert writes count for date, replacing any existing record, and
// persists the full mapping.
func (s *Store) Upsert(ctx context.Context, date core.Date, count int) error {
	if err := (core.Record{Date: date, Count: count}).Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.load(ctx)
	m[date.Key()] = count

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode shipment data: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist shipment data: %w", err)
	}

	s.log.DebugContext(ctx, "Shipment record saved",
		applog.FieldDate, date.Key(), applog.FieldCount, count, "records", len(m))
	return nil
}

// Clear removes every record. It cannot be undone.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear shipment data: %w", err)
	}
	s.log.InfoContext(ctx, "All shipment records cleared", "key", s.key)
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
