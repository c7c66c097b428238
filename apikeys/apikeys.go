// Package apikeys defines the scope model used to gate HTTP access to a
// database instance: a master key has unrestricted access, while issued
// keys carry one of three increasingly permissive scopes.
package apikeys

import (
	"context"
	"fmt"
)

// Scope restricts which operations an API key authorizes.
type Scope string

const (
	ScopeReadOnly        Scope = "readonly"
	ScopeReadWrite       Scope = "read_write"
	ScopeReadWriteDelete Scope = "read_write_delete"
)

// Key is a single issued API key as held in the persistent store.
type Key struct {
	Key       string `json:"key"`
	Scope     Scope  `json:"scope"`
	Deletable bool   `json:"deletable"`
}

// ParseScope validates s against the three known scopes.
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	switch scope {
	case ScopeReadOnly, ScopeReadWrite, ScopeReadWriteDelete:
		return scope, nil
	default:
		return "", fmt.Errorf("invalid scope %q (valid: readonly, read_write, read_write_delete)", s)
	}
}

// AllowsRead reports whether scope authorizes read operations. Every scope does.
func (s Scope) AllowsRead() bool {
	switch s {
	case ScopeReadOnly, ScopeReadWrite, ScopeReadWriteDelete:
		return true
	}
	return false
}

// AllowsWrite reports whether scope authorizes insert/upsert operations.
func (s Scope) AllowsWrite() bool {
	return s == ScopeReadWrite || s == ScopeReadWriteDelete
}

// AllowsDelete reports whether scope authorizes delete operations.
func (s Scope) AllowsDelete() bool {
	return s == ScopeReadWriteDelete
}

type contextKey struct{}

// ContextWithScope attaches the scope resolved for the current request's
// API key so downstream interceptors and handlers can authorize on it
// without re-resolving the key.
func ContextWithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// ScopeFromContext returns the scope attached by ContextWithScope, or the
// empty Scope if none was attached.
func ScopeFromContext(ctx context.Context) Scope {
	scope, _ := ctx.Value(contextKey{}).(Scope)
	return scope
}
