package apicollectionv1

import "github.com/volandoo/fluxiondb/collection"

// recordResponse mirrors collection.Record over the wire, dropping the
// dirty flag: that bookkeeping detail belongs to the flush lifecycle, not
// to a caller reading data back.
type recordResponse struct {
	Timestamp int64  `json:"timestamp"`
	Payload   string `json:"payload"`
}

func newRecordResponse(r *collection.Record) *recordResponse {
	if r == nil {
		return nil
	}
	return &recordResponse{Timestamp: r.Timestamp, Payload: r.Payload}
}

func newRecordResponses(records []*collection.Record) []*recordResponse {
	result := make([]*recordResponse, 0, len(records))
	for _, r := range records {
		result = append(result, newRecordResponse(r))
	}
	return result
}
