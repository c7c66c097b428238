package collection

// Record is an immutable-after-insert timestamped payload. Dirty marks a
// record that has been inserted in memory but not yet confirmed durable by
// the persistent store; it is only meaningful when the owning Collection has
// a store attached.
type Record struct {
	Timestamp int64
	Payload   string
	Dirty     bool
}

// lowerBound returns the smallest index i such that records[i].Timestamp >= t,
// or len(records) if every record has a smaller timestamp.
func lowerBound(records []*Record, t int64) int {
	lo, hi := 0, len(records)
	for lo < hi {
		mid := (lo + hi) / 2
		if records[mid].Timestamp < t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the smallest index i such that records[i].Timestamp > t,
// or len(records) if every record has a timestamp <= t.
func upperBound(records []*Record, t int64) int {
	lo, hi := 0, len(records)
	for lo < hi {
		mid := (lo + hi) / 2
		if records[mid].Timestamp <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// earliestIndex returns the index of the record with the smallest timestamp
// >= t, or -1 if no such record exists.
func earliestIndex(records []*Record, t int64) int {
	if len(records) == 0 {
		return -1
	}
	i := lowerBound(records, t)
	if i == len(records) {
		return -1
	}
	return i
}

// latestIndex returns the index of the record with the largest timestamp
// <= t, or -1 if no such record exists.
func latestIndex(records []*Record, t int64) int {
	if len(records) == 0 {
		return -1
	}
	i := upperBound(records, t)
	if i == 0 {
		return -1
	}
	return i - 1
}

// upsert inserts or replaces the record at timestamp rec.Timestamp, preserving strict
// ascending order. Returns the updated slice.
func upsert(records []*Record, rec *Record) []*Record {
	i := lowerBound(records, rec.Timestamp)
	if i < len(records) && records[i].Timestamp == rec.Timestamp {
		records[i] = rec
		return records
	}
	records = append(records, nil)
	copy(records[i+1:], records[i:])
	records[i] = rec
	return records
}

// removeAt deletes the record at index i, compacting the backing array when
// its capacity exceeds twice the resulting length.
func removeAt(records []*Record, i int) []*Record {
	copy(records[i:], records[i+1:])
	records = records[:len(records)-1]
	return compact(records)
}

// removeRange deletes records in the half-open interval [from, to).
func removeRange(records []*Record, from, to int) []*Record {
	records = append(records[:from], records[to:]...)
	return compact(records)
}

func compact(records []*Record) []*Record {
	if len(records) == 0 {
		return records
	}
	if cap(records) > 2*len(records) {
		tight := make([]*Record, len(records))
		copy(tight, records)
		return tight
	}
	return records
}
