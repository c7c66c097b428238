package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

type sessionRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func session(ctx context.Context, input *sessionRequest) (map[string][]*recordResponse, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	sessionData := col.GetSessionData(input.From, input.To)

	result := make(map[string][]*recordResponse, len(sessionData))
	for key, records := range sessionData {
		result[key] = newRecordResponses(records)
	}
	return result, nil
}
