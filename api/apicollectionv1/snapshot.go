package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/volandoo/fluxiondb/collection"
)

type snapshotRequest struct {
	AtTimestamp int64                  `json:"atTimestamp"`
	From        int64                  `json:"from"`
	Key         string                 `json:"key"`
	Regex       string                 `json:"regex"`
	Filter      map[string]interface{} `json:"filter"`
}

// snapshot serves getAllRecords plus an optional ad-hoc connor filter over
// the resulting payloads, applied after the timestamp/key selection.
func snapshot(ctx context.Context, input *snapshotRequest) (map[string]*recordResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	records := col.GetAllRecords(input.AtTimestamp, collection.KeyFilter{
		Key:   input.Key,
		Regex: input.Regex,
	}, input.From)

	if len(input.Filter) > 0 {
		records, err = col.MatchSnapshot(records, input.Filter)
		if err != nil {
			return nil, err
		}
	}

	result := make(map[string]*recordResponse, len(records))
	for key, record := range records {
		result[key] = newRecordResponse(record)
	}
	return result, nil
}
