package collection

import (
	"encoding/json"

	"github.com/SierraSoftworks/connor"
)

// MatchSnapshot is an ad-hoc extension to GetAllRecords: once a snapshot is
// computed it further restricts the result to documents whose record
// payload, interpreted as a JSON object, matches a connor filter. Payloads
// that fail to parse as JSON are treated as non-matching rather than as an
// error, since record payloads are opaque text as far as the core is
// concerned.
func (c *Collection) MatchSnapshot(snapshot map[string]*Record, filter map[string]interface{}) (map[string]*Record, error) {
	if len(filter) == 0 {
		return snapshot, nil
	}

	result := map[string]*Record{}
	for key, rec := range snapshot {
		data := map[string]interface{}{}
		if err := json.Unmarshal([]byte(rec.Payload), &data); err != nil {
			continue
		}

		match, err := connor.Match(filter, data)
		if err != nil {
			return nil, err
		}
		if match {
			result[key] = rec
		}
	}
	return result, nil
}
