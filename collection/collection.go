package collection

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/btree"
)

// Collection is an in-memory, time-indexed document store: a map of document
// key to a strictly timestamp-ordered, timestamp-unique record sequence,
// plus a flat key/value side-table. It is optionally backed by a Store for
// cold-load and write-through persistence.
//
// Collection is not internally synchronized for read/write mixing on the
// data path (Insert, queries, deletions); callers with concurrent writers
// must serialize themselves. The only concurrency primitive exposed is the
// flush mutex, guaranteeing a single flush in flight at a time.
type Collection struct {
	name  string
	store Store

	documents map[string][]*Record
	docKeys   *btree.BTreeG[string]
	keyValues map[string]string
	hasDirty  bool

	flushMu sync.Mutex
}

func lessString(a, b string) bool { return a < b }

// New creates an empty Collection. A nil store means the Collection is
// purely in-memory: inserts never mark records dirty and write-through
// paths silently skip persistence.
func New(name string, store Store) *Collection {
	return &Collection{
		name:      name,
		store:     store,
		documents: map[string][]*Record{},
		docKeys:   btree.NewG(32, lessString),
		keyValues: map[string]string{},
	}
}

// Name returns the collection's name.
func (c *Collection) Name() string {
	return c.name
}

// HasDirty reports whether at least one record is pending a flush.
func (c *Collection) HasDirty() bool {
	return c.hasDirty
}

// DocumentsLen returns the number of distinct documents currently held in
// memory.
func (c *Collection) DocumentsLen() int {
	return len(c.documents)
}

func (c *Collection) addDocKey(key string) {
	c.docKeys.ReplaceOrInsert(key)
}

func (c *Collection) removeDocKey(key string) {
	c.docKeys.Delete(key)
}

// forEachDocument visits documents in ascending key order, giving callers a
// deterministic iteration order for flush and snapshot reads.
func (c *Collection) forEachDocument(f func(key string, records []*Record) bool) {
	c.docKeys.Ascend(func(key string) bool {
		return f(key, c.documents[key])
	})
}

// Insert upserts a record into the document keyed by key. A record sharing
// timestamp with an existing one replaces it in place; otherwise it is
// placed at the position preserving ascending order. When a Store is
// attached the new record is marked dirty; it is written through only by a
// later FlushToDisk.
func (c *Collection) Insert(timestamp int64, key, payload string) {
	c.insert(timestamp, key, payload, c.store != nil)
}

func (c *Collection) insert(timestamp int64, key, payload string, dirty bool) {
	rec := &Record{
		Timestamp: timestamp,
		Payload:   payload,
		Dirty:     dirty,
	}

	records, exists := c.documents[key]
	records = upsert(records, rec)
	c.documents[key] = records
	if !exists {
		c.addDocKey(key)
	}

	if dirty {
		c.hasDirty = true
	}
}

// GetLatestRecordForDocument returns the record with the largest timestamp
// <= timestamp in the named document, or ok=false if none exists.
func (c *Collection) GetLatestRecordForDocument(key string, timestamp int64) (*Record, bool) {
	records, exists := c.documents[key]
	if !exists {
		return nil, false
	}
	i := latestIndex(records, timestamp)
	if i == -1 {
		return nil, false
	}
	return records[i], true
}

// GetEarliestRecordForDocument returns the record with the smallest
// timestamp >= timestamp in the named document, or ok=false if none exists.
func (c *Collection) GetEarliestRecordForDocument(key string, timestamp int64) (*Record, bool) {
	records, exists := c.documents[key]
	if !exists {
		return nil, false
	}
	i := earliestIndex(records, timestamp)
	if i == -1 {
		return nil, false
	}
	return records[i], true
}

// KeyFilter selects which documents GetAllRecords considers: a Regex takes
// precedence, with Key treated as an additional equality constraint applied
// conjunctively; absent a Regex, an empty Key scans every document and a
// non-empty Key restricts the scan to that single document. An invalid
// regular expression is treated as absent (logged, not raised).
type KeyFilter struct {
	Key   string
	Regex string
}

func (f KeyFilter) compile() *compiledRegex {
	if f.Regex == "" {
		return nil
	}
	re, err := compileRegex(f.Regex)
	if err != nil {
		log.Printf("WARNING: invalid key regex %q: %s", f.Regex, err.Error())
		return nil
	}
	return re
}

// GetAllRecords returns, for every document matching filter, the snapshot at
// atTimestamp: the latest record with timestamp <= atTimestamp. A selected
// record is omitted when from is nonzero and the record's timestamp is
// strictly less than from.
func (c *Collection) GetAllRecords(atTimestamp int64, filter KeyFilter, from int64) map[string]*Record {
	result := map[string]*Record{}

	re := filter.compile()
	hasRegex := re != nil

	include := func(key string, records []*Record) {
		i := latestIndex(records, atTimestamp)
		if i == -1 {
			return
		}
		rec := records[i]
		if from != 0 && rec.Timestamp < from {
			return
		}
		result[key] = rec
	}

	if hasRegex || filter.Key == "" {
		c.forEachDocument(func(key string, records []*Record) bool {
			if hasRegex && !re.MatchString(key) {
				return true
			}
			if filter.Key != "" && key != filter.Key {
				return true
			}
			include(key, records)
			return true
		})
		return result
	}

	records, exists := c.documents[filter.Key]
	if !exists {
		return result
	}
	include(filter.Key, records)
	return result
}

// GetSessionData returns, for every document, the records whose timestamps
// lie in the closed interval [from, to]. An empty mapping is returned when
// from > to.
func (c *Collection) GetSessionData(from, to int64) map[string][]*Record {
	result := map[string][]*Record{}
	if from > to {
		return result
	}

	c.forEachDocument(func(key string, records []*Record) bool {
		startIndex := earliestIndex(records, from)
		if startIndex == -1 {
			return true
		}
		endIndex := latestIndex(records, to)
		if endIndex == -1 {
			return true
		}
		selected := make([]*Record, endIndex-startIndex+1)
		copy(selected, records[startIndex:endIndex+1])
		result[key] = selected
		return true
	})

	return result
}

// GetAllRecordsForDocument returns the records of the named document with
// timestamps in [from, to]. When reverse is true the result is reversed
// after selection; when limit > 0 it is truncated to the first limit
// elements after reversal.
func (c *Collection) GetAllRecordsForDocument(key string, from, to int64, reverse bool, limit int64) []*Record {
	records, exists := c.documents[key]
	if !exists {
		return nil
	}
	if from > to {
		return nil
	}

	startIndex := earliestIndex(records, from)
	if startIndex == -1 {
		return nil
	}
	endIndex := latestIndex(records, to)
	if endIndex == -1 {
		return nil
	}

	result := make([]*Record, endIndex-startIndex+1)
	copy(result, records[startIndex:endIndex+1])

	if reverse {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}

	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}

	return result
}

// ClearDocument removes the entire document from memory and, if a store is
// attached, asks it to delete all rows for (collection, key). Idempotent.
func (c *Collection) ClearDocument(key string) {
	if _, exists := c.documents[key]; exists {
		delete(c.documents, key)
		c.removeDocKey(key)
	}

	if c.store != nil {
		c.store.DeleteDocument(c.name, key)
	}
}

// DeleteRecord removes the record with the exact timestamp from the named
// document, a no-op if absent. If the document becomes empty its entry is
// dropped. The store's DeleteRecord is invoked synchronously whenever a
// record was actually removed.
func (c *Collection) DeleteRecord(key string, timestamp int64) {
	records, exists := c.documents[key]
	if !exists {
		return
	}

	i := lowerBound(records, timestamp)
	if i >= len(records) || records[i].Timestamp != timestamp {
		return
	}

	records = removeAt(records, i)
	if len(records) == 0 {
		delete(c.documents, key)
		c.removeDocKey(key)
	} else {
		c.documents[key] = records
	}

	if c.store != nil {
		c.store.DeleteRecord(c.name, key, timestamp)
	}
}

// DeleteRecordsInRange removes every record of the named document whose
// timestamp lies in [from, to]. No-op if none match. The store's
// DeleteRecordsInRange is invoked synchronously on any non-empty removal.
func (c *Collection) DeleteRecordsInRange(key string, from, to int64) {
	records, exists := c.documents[key]
	if !exists {
		return
	}

	begin := lowerBound(records, from)
	end := upperBound(records, to)
	if begin >= len(records) || begin >= end {
		return
	}

	records = removeRange(records, begin, end)
	if len(records) == 0 {
		delete(c.documents, key)
		c.removeDocKey(key)
	} else {
		c.documents[key] = records
	}

	if c.store != nil {
		c.store.DeleteRecordsInRange(c.name, key, from, to)
	}
}

// LoadFromDisk requires an attached Store. It clears the Collection's
// in-memory state, re-fetches all records and key/values for the
// Collection's name, and inserts each record non-dirty.
func (c *Collection) LoadFromDisk() error {
	if c.store == nil {
		return fmt.Errorf("collection %q has no persistent store attached", c.name)
	}

	c.documents = map[string][]*Record{}
	c.docKeys = btree.NewG(32, lessString)
	c.keyValues = map[string]string{}
	c.hasDirty = false

	records, err := c.store.FetchRecords(c.name)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}
	for _, r := range records {
		c.insert(r.Timestamp, r.Document, r.Data, false)
	}

	kvs, err := c.store.FetchKeyValues(c.name)
	if err != nil {
		return fmt.Errorf("fetch key values: %w", err)
	}
	for _, kv := range kvs {
		c.keyValues[kv.Key] = kv.Value
	}

	return nil
}

// FlushToDisk batches every dirty record into a single store transaction.
// Records that fail to upsert stay dirty for the next flush. A failed
// commit triggers a rollback; HasDirty is recomputed exactly from the
// post-pass state either way.
func (c *Collection) FlushToDisk() {
	start := time.Now()

	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	if c.store == nil || !c.hasDirty {
		return
	}

	started := c.store.BeginTransaction()
	if !started {
		log.Printf("WARNING: failed to start transaction for flushing collection %q", c.name)
		return
	}

	count := 0
	c.forEachDocument(func(doc string, records []*Record) bool {
		for _, rec := range records {
			if !rec.Dirty {
				continue
			}
			if c.store.UpsertRecord(c.name, doc, rec.Timestamp, rec.Payload) {
				rec.Dirty = false
				count++
			} else {
				log.Printf("WARNING: failed to upsert record for collection %q doc %q timestamp %d", c.name, doc, rec.Timestamp)
			}
		}
		return true
	})

	c.hasDirty = c.recomputeHasDirty()

	if !c.store.CommitTransaction() {
		c.store.RollbackTransaction()
	}

	log.Printf("flushed %d new records to disk for collection %q in %s", count, c.name, time.Since(start))
}

func (c *Collection) recomputeHasDirty() bool {
	dirty := false
	c.forEachDocument(func(_ string, records []*Record) bool {
		for _, rec := range records {
			if rec.Dirty {
				dirty = true
				return false
			}
		}
		return true
	})
	return dirty
}

// Close flushes pending writes and releases every document's record
// storage, hinting the runtime to return freed memory to the operating
// system. The key/value side-table is left in place.
func (c *Collection) Close() error {
	c.FlushToDisk()

	c.documents = map[string][]*Record{}
	c.docKeys = btree.NewG(32, lessString)

	debug.FreeOSMemory()

	return nil
}
