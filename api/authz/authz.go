// Package authz resolves the X-Api-Key header of an incoming request into
// an apikeys.Scope and gates handlers on it. It is kept separate from
// package api so that package apicollectionv1 can apply the same
// interceptors to individual actions without importing its own caller.
package authz

import (
	"context"
	"errors"

	"github.com/fulldump/box"

	"github.com/volandoo/fluxiondb/apikeys"
	"github.com/volandoo/fluxiondb/service"
)

var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("forbidden")

const ApiKeyHeader = "X-Api-Key"

// Authentication resolves the X-Api-Key header against masterApiKey and the
// issued keys known to s, rejecting the request with ErrUnauthorized when
// absent or unrecognized. A match with masterApiKey is granted unrestricted
// read_write_delete scope regardless of what's stored for it.
func Authentication(s service.Servicer, masterApiKey string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			key := r.Header.Get(ApiKeyHeader)

			if key == "" {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			if masterApiKey != "" && key == masterApiKey {
				next(apikeys.ContextWithScope(ctx, apikeys.ScopeReadWriteDelete))
				return
			}

			scope, exists := s.ResolveApiKey(key)
			if !exists {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			next(apikeys.ContextWithScope(ctx, scope))
		}
	}
}

// RequireWrite rejects the request with ErrForbidden unless the resolved
// scope authorizes inserts.
func RequireWrite(next box.H) box.H {
	return func(ctx context.Context) {
		if !apikeys.ScopeFromContext(ctx).AllowsWrite() {
			box.SetError(ctx, ErrForbidden)
			return
		}
		next(ctx)
	}
}

// RequireDelete rejects the request with ErrForbidden unless the resolved
// scope authorizes deletions.
func RequireDelete(next box.H) box.H {
	return func(ctx context.Context) {
		if !apikeys.ScopeFromContext(ctx).AllowsDelete() {
			box.SetError(ctx, ErrForbidden)
			return
		}
		next(ctx)
	}
}

// RequireMaster rejects the request with ErrForbidden unless it
// authenticated with the master API key; issuing and revoking API keys is
// master-only regardless of any issued key's scope.
func RequireMaster(masterApiKey string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			if masterApiKey == "" || r.Header.Get(ApiKeyHeader) != masterApiKey {
				box.SetError(ctx, ErrForbidden)
				return
			}
			next(ctx)
		}
	}
}
