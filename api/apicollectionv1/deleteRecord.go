package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type deleteRecordRequest struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

func deleteRecord(ctx context.Context, input *deleteRecordRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.DeleteRecord(input.Key, input.Timestamp)
	return nil
}
