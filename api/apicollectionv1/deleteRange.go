package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type deleteRangeRequest struct {
	Key  string `json:"key"`
	From int64  `json:"from"`
	To   int64  `json:"to"`
}

func deleteRange(ctx context.Context, input *deleteRangeRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.DeleteRecordsInRange(input.Key, input.From, input.To)
	return nil
}
