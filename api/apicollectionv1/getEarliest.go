package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type getEarliestRequest struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

func getEarliest(ctx context.Context, input *getEarliestRequest) (*recordResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	record, found := col.GetEarliestRecordForDocument(input.Key, input.Timestamp)
	if !found {
		return nil, nil
	}

	return newRecordResponse(record), nil
}
