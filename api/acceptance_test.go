package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fulldump/apitest"
	"github.com/fulldump/box"

	. "github.com/fulldump/biff"

	"github.com/volandoo/fluxiondb/api/authz"
	"github.com/volandoo/fluxiondb/database"
	"github.com/volandoo/fluxiondb/service"
)

func TestAcceptance(t *testing.T) {

	Alternative("Setup", func(a *A) {

		db := database.NewDatabase(&database.Config{
			Dir: t.TempDir(),
		})

		AssertNil(db.Load())
		AssertEqual(db.GetStatus(), database.StatusOperating)

		s := service.NewService(db)

		b := Build(s, "test-version", "master-key")
		b.WithInterceptors(
			InterceptorUnavailable(db),
			RecoverFromPanic,
			PrettyErrorInterceptor,
		)

		api := apitest.NewWithHandler(box.Box2Http(b))

		a.Alternative("Release endpoint needs no key", func(a *A) {
			res := api.Request(http.MethodGet, "/release").Do()
			AssertEqual(res.StatusCode, http.StatusOK)
		})

		a.Alternative("v1 endpoints reject missing api key", func(a *A) {
			res := api.Request(http.MethodGet, "/v1/collections").Do()
			AssertEqual(res.StatusCode, http.StatusUnauthorized)
		})

		a.Alternative("master key can create, write and read a collection", func(a *A) {

			res := api.Request(http.MethodPost, "/v1/collections").
				WithHeader(authz.ApiKeyHeader, "master-key").
				WithBodyJson(map[string]string{"name": "sensors"}).
				Do()
			AssertEqual(res.StatusCode, http.StatusCreated)

			res = api.Request(http.MethodPost, "/v1/collections/sensors:insert").
				WithHeader(authz.ApiKeyHeader, "master-key").
				WithBodyJson(map[string]interface{}{
					"key":       "sensor-1",
					"timestamp": 10,
					"payload":   map[string]string{"temp": "21"},
				}).
				Do()
			AssertEqual(res.StatusCode, http.StatusCreated)

			res = api.Request(http.MethodPost, "/v1/collections/sensors:getLatest").
				WithHeader(authz.ApiKeyHeader, "master-key").
				WithBodyJson(map[string]interface{}{
					"key":       "sensor-1",
					"timestamp": 100,
				}).
				Do()
			AssertEqual(res.StatusCode, http.StatusOK)
			body := res.BodyJsonMap()
			AssertEqual(body["timestamp"].(json.Number).String(), "10")

			a.Alternative("a readonly key cannot insert", func(a *A) {

				res := api.Request(http.MethodPost, "/v1/apikeys").
					WithHeader(authz.ApiKeyHeader, "master-key").
					WithBodyJson(map[string]string{"key": "reader", "scope": "readonly"}).
					Do()
				AssertEqual(res.StatusCode, http.StatusCreated)

				res = api.Request(http.MethodPost, "/v1/collections/sensors:insert").
					WithHeader(authz.ApiKeyHeader, "reader").
					WithBodyJson(map[string]interface{}{
						"key":       "sensor-1",
						"timestamp": 20,
						"payload":   map[string]string{"temp": "22"},
					}).
					Do()
				AssertEqual(res.StatusCode, http.StatusForbidden)
			})

			a.Alternative("a non-master key cannot manage api keys", func(a *A) {

				res := api.Request(http.MethodGet, "/v1/apikeys").
					WithHeader(authz.ApiKeyHeader, "master-key").
					Do()
				AssertEqual(res.StatusCode, http.StatusOK)

				res = api.Request(http.MethodPost, "/v1/apikeys").
					WithHeader(authz.ApiKeyHeader, "master-key").
					WithBodyJson(map[string]string{"key": "writer", "scope": "read_write"}).
					Do()
				AssertEqual(res.StatusCode, http.StatusCreated)

				res = api.Request(http.MethodPost, "/v1/apikeys").
					WithHeader(authz.ApiKeyHeader, "writer").
					WithBodyJson(map[string]string{"key": "escalate", "scope": "read_write_delete"}).
					Do()
				AssertEqual(res.StatusCode, http.StatusForbidden)
			})
		})
	})
}
