package apicollectionv1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"
)

type insertRequest struct {
	Key       string          `json:"key"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func insert(ctx context.Context, w http.ResponseWriter, input *insertRequest) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.Insert(input.Timestamp, input.Key, string(input.Payload))

	w.WriteHeader(http.StatusCreated)
	return nil
}
