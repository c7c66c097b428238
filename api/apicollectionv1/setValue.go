package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type setValueRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func setValue(ctx context.Context, input *setValueRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.SetValueForKey(input.Key, input.Value)
	return nil
}
