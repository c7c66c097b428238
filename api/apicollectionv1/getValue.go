package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type getValueRequest struct {
	Key string `json:"key"`
}

type getValueResponse struct {
	Value string `json:"value"`
}

func getValue(ctx context.Context, input *getValueRequest) (*getValueResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return &getValueResponse{Value: col.GetValueForKey(input.Key)}, nil
}
