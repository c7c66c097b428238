package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type removeValueRequest struct {
	Key string `json:"key"`
}

func removeValue(ctx context.Context, input *removeValueRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.RemoveValueForKey(input.Key)
	return nil
}
