package apicollectionv1

import "context"

func listCollections(ctx context.Context) ([]*collectionResponse, error) {

	s := GetServicer(ctx)

	infos := s.ListCollections()

	result := make([]*collectionResponse, 0, len(infos))
	for _, info := range infos {
		result = append(result, newCollectionResponse(info))
	}

	return result, nil
}
