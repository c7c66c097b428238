package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func flush(ctx context.Context, w http.ResponseWriter) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	col.FlushToDisk()

	w.WriteHeader(http.StatusOK)
	return nil
}
