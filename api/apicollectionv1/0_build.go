package apicollectionv1

import (
	"github.com/fulldump/box"

	"github.com/volandoo/fluxiondb/api/apikeysapi"
	"github.com/volandoo/fluxiondb/api/authz"
	"github.com/volandoo/fluxiondb/service"
)

var requireWrite = authz.RequireWrite
var requireDelete = authz.RequireDelete

// BuildV1 mounts every collection and record operation under v1, plus API
// key management gated to the master key.
func BuildV1(v1 *box.R, s service.Servicer, masterApiKey string) *box.R {

	v1.Resource("/collections").
		WithActions(
			box.Get(listCollections),
			box.Post(createCollection).WithInterceptors(requireWrite),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(dropCollection).WithInterceptors(requireDelete),

			box.ActionPost(insert).WithInterceptors(requireWrite),
			box.ActionPost(getLatest),
			box.ActionPost(getEarliest),
			box.ActionPost(snapshot),
			box.ActionPost(session),
			box.ActionPost(document),
			box.ActionPost(clearDocument).WithInterceptors(requireDelete),
			box.ActionPost(deleteRecord).WithInterceptors(requireDelete),
			box.ActionPost(deleteRange).WithInterceptors(requireDelete),

			box.ActionPost(setValue).WithInterceptors(requireWrite),
			box.ActionPost(getValue),
			box.ActionPost(removeValue).WithInterceptors(requireDelete),
			box.ActionPost(getAllValues),

			box.ActionPost(flush).WithInterceptors(requireWrite),
			box.ActionPost(load).WithInterceptors(requireWrite),
		)

	apikeysapi.Build(v1, s, masterApiKey)

	return v1
}
