package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type getLatestRequest struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

func getLatest(ctx context.Context, input *getLatestRequest) (*recordResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	record, found := col.GetLatestRecordForDocument(input.Key, input.Timestamp)
	if !found {
		return nil, nil
	}

	return newRecordResponse(record), nil
}
