package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type documentRequest struct {
	Key     string `json:"key"`
	From    int64  `json:"from"`
	To      int64  `json:"to"`
	Reverse bool   `json:"reverse"`
	Limit   int64  `json:"limit"`
}

func document(ctx context.Context, input *documentRequest) ([]*recordResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	records := col.GetAllRecordsForDocument(input.Key, input.From, input.To, input.Reverse, input.Limit)

	return newRecordResponses(records), nil
}
