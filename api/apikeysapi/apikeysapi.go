// Package apikeysapi mounts API key management under /v1/apikeys. Every
// action here requires the master key regardless of the caller's own
// issued-key scope.
package apikeysapi

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/volandoo/fluxiondb/api/authz"
	"github.com/volandoo/fluxiondb/apikeys"
	"github.com/volandoo/fluxiondb/service"
)

func Build(v1 *box.R, s service.Servicer, masterApiKey string) {

	v1.Resource("/apikeys").
		WithActions(
			box.Get(listApiKeys),
			box.Post(createApiKey),
			box.ActionPost(removeApiKey),
		).
		WithInterceptors(
			authz.RequireMaster(masterApiKey),
			injectServicer(s),
		)
}

const contextServicerKey = "fluxiondb-apikeysapi-servicer"

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(context.WithValue(ctx, contextServicerKey, s))
		}
	}
}

func getServicer(ctx context.Context) service.Servicer {
	return ctx.Value(contextServicerKey).(service.Servicer)
}

func listApiKeys(ctx context.Context) ([]apikeys.Key, error) {
	return getServicer(ctx).ListApiKeys()
}

type createApiKeyRequest struct {
	Key   string `json:"key"`
	Scope string `json:"scope"`
}

func createApiKey(ctx context.Context, w http.ResponseWriter, input *createApiKeyRequest) (*apikeys.Key, error) {

	scope, err := apikeys.ParseScope(input.Scope)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	if err := getServicer(ctx).CreateApiKey(input.Key, scope); err != nil {
		return nil, err
	}

	w.WriteHeader(http.StatusCreated)
	return &apikeys.Key{Key: input.Key, Scope: scope, Deletable: true}, nil
}

type removeApiKeyRequest struct {
	Key string `json:"key"`
}

func removeApiKey(ctx context.Context, w http.ResponseWriter, input *removeApiKeyRequest) error {

	if err := getServicer(ctx).RemoveApiKey(input.Key); err != nil {
		return err
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
