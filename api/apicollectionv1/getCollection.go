package apicollectionv1

import (
	"context"

	"github.com/fulldump/box"
)

func getCollection(ctx context.Context) (*collectionResponse, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	info, err := s.GetCollectionInfo(collectionName)
	if err != nil {
		return nil, err
	}

	return newCollectionResponse(info), nil
}
