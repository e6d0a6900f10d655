package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/faultline/faultline/pkg/logger"
)

// Store holds the process-wide configuration record with atomic snapshot
// replacement. Readers are lock-free; Persist, Put, and Restart serialize
// behind a single writer mutex. Consumers receive a *Store explicitly (or
// through the context) instead of reaching into package-global state.
type Store struct {
	Service    Service
	current    atomic.Value // stores *Record
	writeMu    sync.Mutex
	callbacks  []func(*Record)
	callbackMu sync.RWMutex
}

// NewStore creates a configuration store.
func NewStore(service Service) *Store {
	if service == nil {
		service = NewService()
	}
	return &Store{
		Service:   service,
		callbacks: make([]func(*Record), 0),
	}
}

// Load validates the supplied options and persists the resulting record.
func (s *Store) Load(ctx context.Context, opts Options) (*Record, error) {
	record, err := s.Service.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	s.Persist(ctx, record)
	return record, nil
}

// Persist replaces the entire store with the given record and surfaces its
// diagnostics on the diagnostic stream. Intended to run once at startup.
func (s *Store) Persist(ctx context.Context, record *Record) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.apply(ctx, record)
}

// Record returns the current record snapshot, or nil before the first
// Persist.
func (s *Store) Record() *Record {
	value := s.current.Load()
	if value == nil {
		return nil
	}
	record, ok := value.(*Record)
	if !ok {
		return nil
	}
	return record
}

// Get returns the current value for a recognized option.
func (s *Store) Get(name string) (any, error) {
	record := s.Record()
	if record == nil {
		return nil, fmt.Errorf("configuration store is empty: persist a record first")
	}
	value, ok := record.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOption, name)
	}
	return value, nil
}

// Put re-validates value against the option's declared shape and replaces
// only that entry. The store is left untouched when validation fails or the
// option is unrecognized. Atomicity covers the single option: readers see
// the previous snapshot or the new one, never a torn record.
func (s *Store) Put(ctx context.Context, name string, value any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	record := s.Record()
	if record == nil {
		return fmt.Errorf("configuration store is empty: persist a record first")
	}
	if _, ok := record.Lookup(name); !ok {
		return fmt.Errorf("%w %q", ErrUnknownOption, name)
	}
	checked, err := s.Service.CheckOption(name, value)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(record.values))
	for key, existing := range record.values {
		values[key] = existing
	}
	values[name] = checked

	cfg, err := s.Service.Realize(values)
	if err != nil {
		return err
	}

	sources := make(map[string]SourceType, len(record.sources))
	for key, source := range record.sources {
		sources[key] = source
	}
	sources[name] = SourceOverride

	s.apply(ctx, &Record{
		typed:   cfg,
		values:  values,
		order:   record.order,
		sources: sources,
	})
	return nil
}

// Restart resets the store to a freshly validated record built from
// defaults and the current environment. Explicit overrides from earlier
// loads are discarded.
func (s *Store) Restart(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	record, err := s.Service.Load(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to restart configuration: %w", err)
	}
	s.apply(ctx, record)
	return nil
}

// OnChange registers a callback invoked whenever the snapshot is replaced.
func (s *Store) OnChange(callback func(*Record)) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()
	s.callbacks = append(s.callbacks, callback)
}

// apply stores the new record, logs its diagnostics, and notifies
// callbacks. Callers hold writeMu.
func (s *Store) apply(ctx context.Context, record *Record) {
	s.current.Store(record)

	log := logger.FromContext(ctx)
	for _, diag := range record.Diagnostics() {
		log.Warn(diag.Message, "option", diag.Option, "replacement", diag.Replacement)
	}

	s.callbackMu.RLock()
	callbacks := make([]func(*Record), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.callbackMu.RUnlock()

	for _, callback := range callbacks {
		if callback != nil {
			callback(record)
		}
	}
}
