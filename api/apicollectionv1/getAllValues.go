package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type getAllValuesRequest struct {
	Regex string `json:"regex"`
}

func getAllValues(ctx context.Context, input *getAllValuesRequest) (map[string]string, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return col.GetAllValues(input.Regex), nil
}
