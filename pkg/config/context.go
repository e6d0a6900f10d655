package config

import "context"

// ContextKey is an alias used for storing values in context
type ContextKey string

const (
	// StoreCtxKey is the context key used to store the *Store instance
	StoreCtxKey ContextKey = "config_store"
)

// ContextWithStore attaches the configuration store to the context.
func ContextWithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, StoreCtxKey, s)
}

// StoreFromContext retrieves the configuration store from the context.
// It returns nil when no store was attached; components are expected to
// receive their store explicitly rather than rely on ambient state.
func StoreFromContext(ctx context.Context) *Store {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(StoreCtxKey).(*Store); ok {
		return s
	}
	return nil
}

// FromContext returns the current record for the store attached to the
// provided context, or nil when no store or record exists.
func FromContext(ctx context.Context) *Record {
	s := StoreFromContext(ctx)
	if s == nil {
		return nil
	}
	return s.Record()
}
