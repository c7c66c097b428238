package apicollectionv1

import "github.com/volandoo/fluxiondb/service"

// collectionResponse mirrors service.CollectionInfo over the wire; kept as
// its own type so the JSON shape here is decoupled from the service layer.
type collectionResponse struct {
	Name         string `json:"name"`
	DocumentsLen int    `json:"documents"`
	HasDirty     bool   `json:"hasDirty"`
}

func newCollectionResponse(info *service.CollectionInfo) *collectionResponse {
	return &collectionResponse{
		Name:         info.Name,
		DocumentsLen: info.DocumentsLen,
		HasDirty:     info.HasDirty,
	}
}
