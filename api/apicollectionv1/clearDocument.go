package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type clearDocumentRequest struct {
	Key string `json:"key"`
}

func clearDocument(ctx context.Context, input *clearDocumentRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.ClearDocument(input.Key)
	return nil
}
