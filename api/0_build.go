package api

import (
	"context"

	"github.com/fulldump/box"

	"github.com/volandoo/fluxiondb/api/apicollectionv1"
	"github.com/volandoo/fluxiondb/api/authz"
	"github.com/volandoo/fluxiondb/service"
)

// Build assembles the HTTP API for a running fluxiond instance. version is
// exposed on GET /release; masterApiKey grants unrestricted scope and is
// required to issue or revoke API keys.
func Build(s service.Servicer, version, masterApiKey string) *box.B {

	b := box.NewBox()

	b.Resource("/release").
		WithActions(
			box.Get(func() string { return version }),
		)

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		injectServicer(s),
		authz.Authentication(s, masterApiKey),
	)

	apicollectionv1.BuildV1(v1, s, masterApiKey)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apicollectionv1.SetServicer(ctx, s))
		}
	}
}
