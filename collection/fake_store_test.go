package collection

import "sync"

// fakeStore is an in-memory stand-in for the relational Store used to
// exercise Collection without spinning up SQLite. It mirrors the schema
// from package store closely enough to assert round-trip behavior.
type fakeStore struct {
	mu sync.Mutex

	records   map[string]map[string]map[int64]string // collection -> doc -> ts -> data
	keyValues map[string]map[string]string            // collection -> key -> value

	inTx bool

	failUpsertEveryN int
	upsertCalls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:   map[string]map[string]map[int64]string{},
		keyValues: map[string]map[string]string{},
	}
}

func (s *fakeStore) FetchRecords(collection string) ([]StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []StoredRecord
	for doc, byTs := range s.records[collection] {
		for ts, data := range byTs {
			result = append(result, StoredRecord{Document: doc, Timestamp: ts, Data: data})
		}
	}
	return result, nil
}

func (s *fakeStore) FetchKeyValues(collection string) ([]StoredKeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []StoredKeyValue
	for k, v := range s.keyValues[collection] {
		result = append(result, StoredKeyValue{Key: k, Value: v})
	}
	return result, nil
}

func (s *fakeStore) UpsertRecord(collection, document string, timestamp int64, data string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertCalls++
	if s.failUpsertEveryN > 0 && s.upsertCalls%s.failUpsertEveryN == 0 {
		return false
	}

	byDoc, ok := s.records[collection]
	if !ok {
		byDoc = map[string]map[int64]string{}
		s.records[collection] = byDoc
	}
	byTs, ok := byDoc[document]
	if !ok {
		byTs = map[int64]string{}
		byDoc[document] = byTs
	}
	byTs[timestamp] = data
	return true
}

func (s *fakeStore) DeleteRecord(collection, document string, timestamp int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byDoc, ok := s.records[collection]; ok {
		if byTs, ok := byDoc[document]; ok {
			delete(byTs, timestamp)
		}
	}
	return true
}

func (s *fakeStore) DeleteRecordsInRange(collection, document string, from, to int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byDoc, ok := s.records[collection]; ok {
		if byTs, ok := byDoc[document]; ok {
			for ts := range byTs {
				if ts >= from && ts <= to {
					delete(byTs, ts)
				}
			}
		}
	}
	return true
}

func (s *fakeStore) DeleteDocument(collection, document string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byDoc, ok := s.records[collection]; ok {
		delete(byDoc, document)
	}
	return true
}

func (s *fakeStore) UpsertKeyValue(collection, key, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.keyValues[collection]
	if !ok {
		byKey = map[string]string{}
		s.keyValues[collection] = byKey
	}
	byKey[key] = value
	return true
}

func (s *fakeStore) RemoveKeyValue(collection, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if byKey, ok := s.keyValues[collection]; ok {
		delete(byKey, key)
	}
	return true
}

func (s *fakeStore) BeginTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = true
	return true
}

func (s *fakeStore) CommitTransaction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	return true
}

func (s *fakeStore) RollbackTransaction() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
}
