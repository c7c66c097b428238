package collection

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestInsert_UpsertReplace(t *testing.T) {
	c := New("events", nil)

	c.Insert(10, "a", "v1")
	c.Insert(20, "a", "v2")
	c.Insert(10, "a", "v1b")

	records := c.GetAllRecordsForDocument("a", 0, 100, false, 0)
	AssertEqual(len(records), 2)
	AssertEqual(records[0].Timestamp, int64(10))
	AssertEqual(records[0].Payload, "v1b")
	AssertEqual(records[1].Timestamp, int64(20))
	AssertEqual(records[1].Payload, "v2")
}

func TestInsert_KeepsOrderAndUniqueness(t *testing.T) {
	c := New("events", nil)

	c.Insert(5, "a", "x")
	c.Insert(1, "a", "y")
	c.Insert(3, "a", "z")

	records := c.GetAllRecordsForDocument("a", 0, 10, false, 0)
	AssertEqual(len(records), 3)
	AssertEqual(records[0].Timestamp, int64(1))
	AssertEqual(records[1].Timestamp, int64(3))
	AssertEqual(records[2].Timestamp, int64(5))
}

func TestGetAllRecords_PointInTimeSnapshot(t *testing.T) {
	c := New("events", nil)

	c.Insert(1, "a", "x1")
	c.Insert(5, "a", "x2")
	c.Insert(10, "a", "x3")
	c.Insert(2, "b", "y1")
	c.Insert(8, "b", "y2")

	result := c.GetAllRecords(6, KeyFilter{}, 0)

	AssertEqual(len(result), 2)
	AssertEqual(result["a"].Timestamp, int64(5))
	AssertEqual(result["a"].Payload, "x2")
	AssertEqual(result["b"].Timestamp, int64(2))
	AssertEqual(result["b"].Payload, "y1")
}

func TestGetAllRecords_KeyFilterEquality(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "x1")
	c.Insert(1, "b", "y1")

	result := c.GetAllRecords(10, KeyFilter{Key: "a"}, 0)
	AssertEqual(len(result), 1)
	AssertNotNil(result["a"])
}

func TestGetAllRecords_RegexAndKeyAreConjunctive(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "car-1", "x")
	c.Insert(1, "car-2", "y")
	c.Insert(1, "bike-1", "z")

	// regex matches car-1 and car-2, but key filter narrows to car-1 only
	result := c.GetAllRecords(10, KeyFilter{Key: "car-1", Regex: "^car-"}, 0)
	AssertEqual(len(result), 1)
	AssertNotNil(result["car-1"])
}

func TestGetAllRecords_InvalidRegexTreatedAsAbsent(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "x")

	result := c.GetAllRecords(10, KeyFilter{Regex: "("}, 0)
	AssertEqual(len(result), 1)
}

func TestGetAllRecords_FromExcludesOlderSnapshot(t *testing.T) {
	c := New("events", nil)
	c.Insert(3, "a", "x")

	result := c.GetAllRecords(10, KeyFilter{}, 5)
	AssertEqual(len(result), 0)
}

func TestGetAllRecordsForDocument_RangeReversedWithLimit(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "p")
	c.Insert(2, "a", "q")
	c.Insert(3, "a", "r")
	c.Insert(4, "a", "s")

	result := c.GetAllRecordsForDocument("a", 1, 4, true, 2)
	AssertEqual(len(result), 2)
	AssertEqual(result[0].Payload, "s")
	AssertEqual(result[1].Payload, "r")
}

func TestGetAllRecordsForDocument_InvalidRangeIsEmpty(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "p")

	result := c.GetAllRecordsForDocument("a", 5, 1, false, 0)
	AssertEqual(len(result), 0)
}

func TestGetSessionData_InvalidRangeIsEmptyMapping(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "p")

	result := c.GetSessionData(5, 1)
	AssertEqual(len(result), 0)
}

func TestGetSessionData_PerDocumentInterval(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "a1")
	c.Insert(5, "a", "a2")
	c.Insert(9, "a", "a3")
	c.Insert(4, "b", "b1")

	result := c.GetSessionData(2, 6)
	AssertEqual(len(result), 2)
	AssertEqual(len(result["a"]), 1)
	AssertEqual(result["a"][0].Payload, "a2")
}

func TestDeleteRecordsInRange(t *testing.T) {
	c := New("events", nil)
	for ts := int64(1); ts <= 5; ts++ {
		c.Insert(ts, "a", "v")
	}

	c.DeleteRecordsInRange("a", 2, 4)

	records := c.GetAllRecordsForDocument("a", 0, 10, false, 0)
	AssertEqual(len(records), 2)
	AssertEqual(records[0].Timestamp, int64(1))
	AssertEqual(records[1].Timestamp, int64(5))
}

func TestDeleteRecordsInRange_EmptiesDocument(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "v")
	c.Insert(2, "a", "v")

	c.DeleteRecordsInRange("a", 1, 2)

	result := c.GetAllRecords(10, KeyFilter{}, 0)
	AssertEqual(len(result), 0)
}

func TestDeleteRecord_NoopWhenAbsent(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "v")

	c.DeleteRecord("a", 99)

	records := c.GetAllRecordsForDocument("a", 0, 10, false, 0)
	AssertEqual(len(records), 1)
}

func TestClearDocument_Idempotent(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "v")

	c.ClearDocument("a")
	c.ClearDocument("a")

	records := c.GetAllRecordsForDocument("a", 0, 10, false, 0)
	AssertEqual(len(records), 0)
}

func TestGetLatestAndEarliest(t *testing.T) {
	c := New("events", nil)
	c.Insert(10, "a", "v10")
	c.Insert(20, "a", "v20")
	c.Insert(30, "a", "v30")

	latest, ok := c.GetLatestRecordForDocument("a", 25)
	AssertTrue(ok)
	AssertEqual(latest.Timestamp, int64(20))

	_, ok = c.GetLatestRecordForDocument("a", 5)
	AssertFalse(ok)

	earliest, ok := c.GetEarliestRecordForDocument("a", 25)
	AssertTrue(ok)
	AssertEqual(earliest.Timestamp, int64(30))

	_, ok = c.GetEarliestRecordForDocument("a", 35)
	AssertFalse(ok)
}

func TestGetLatestEarliest_MissingDocument(t *testing.T) {
	c := New("events", nil)

	_, ok := c.GetLatestRecordForDocument("ghost", 10)
	AssertFalse(ok)

	_, ok = c.GetEarliestRecordForDocument("ghost", 10)
	AssertFalse(ok)
}

func TestKeyValueSideTable(t *testing.T) {
	c := New("events", nil)

	AssertEqual(c.GetValueForKey("missing"), "")

	c.SetValueForKey("color", "blue")
	AssertEqual(c.GetValueForKey("color"), "blue")

	c.RemoveValueForKey("color")
	AssertEqual(c.GetValueForKey("color"), "")
}

func TestGetAllValues_RegexFilter(t *testing.T) {
	c := New("events", nil)
	c.SetValueForKey("car.color", "blue")
	c.SetValueForKey("car.speed", "90")
	c.SetValueForKey("bike.color", "red")

	result := c.GetAllValues("^car\\.")
	AssertEqual(len(result), 2)

	all := c.GetAllValues("")
	AssertEqual(len(all), 3)
}

func TestInsertWithoutStore_NeverMarksDirty(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "v")

	AssertFalse(c.HasDirty())
}

func TestInsertWithStore_MarksDirtyUntilFlush(t *testing.T) {
	store := newFakeStore()
	c := New("events", store)

	c.Insert(1, "a", "v1")
	c.Insert(2, "a", "v2")
	c.Insert(3, "b", "v3")

	AssertTrue(c.HasDirty())

	c.FlushToDisk()

	AssertFalse(c.HasDirty())

	rows, _ := store.FetchRecords("events")
	AssertEqual(len(rows), 3)
}

func TestFlushSurvivesReload(t *testing.T) {
	store := newFakeStore()
	c := New("events", store)

	c.Insert(1, "a", "v1")
	c.Insert(2, "a", "v2")
	c.Insert(3, "b", "v3")
	c.SetValueForKey("color", "blue")

	c.FlushToDisk()
	c.Close()

	fresh := New("events", store)
	err := fresh.LoadFromDisk()
	AssertNil(err)
	AssertFalse(fresh.HasDirty())

	records := fresh.GetAllRecordsForDocument("a", 0, 10, false, 0)
	AssertEqual(len(records), 2)
	AssertEqual(fresh.GetValueForKey("color"), "blue")
}

func TestPartialFlushFailure_LeavesFailedRecordsDirty(t *testing.T) {
	store := newFakeStore()
	store.failUpsertEveryN = 2 // every second upsert call fails

	c := New("events", store)
	c.Insert(1, "a", "v1")
	c.Insert(2, "a", "v2")
	c.Insert(3, "a", "v3")
	c.Insert(4, "a", "v4")

	c.FlushToDisk()

	AssertTrue(c.HasDirty())

	store.failUpsertEveryN = 0
	c.FlushToDisk()

	AssertFalse(c.HasDirty())
}

func TestFlushToDisk_NoStoreIsNoop(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", "v1")

	c.FlushToDisk() // should not panic
	AssertFalse(c.HasDirty())
}

func TestLoadFromDisk_RequiresStore(t *testing.T) {
	c := New("events", nil)
	err := c.LoadFromDisk()
	AssertNotNil(err)
}

func TestMatchSnapshot_StructuredFilter(t *testing.T) {
	c := New("events", nil)
	c.Insert(1, "a", `{"status":"ok"}`)
	c.Insert(1, "b", `{"status":"error"}`)

	snapshot := c.GetAllRecords(10, KeyFilter{}, 0)
	matched, err := c.MatchSnapshot(snapshot, map[string]interface{}{"status": "ok"})
	AssertNil(err)
	AssertEqual(len(matched), 1)
	AssertNotNil(matched["a"])
}
