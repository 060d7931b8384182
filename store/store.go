// Package store keeps the append-only history of recognition results as a
// single serialized collection under one storage key. It is a best-effort
// local cache: storage failures are logged and swallowed, never returned.
package store

import (
	"encoding/json"
	"log"
	"sort"
	"time"

	"foodcal/models"
)

const storageKey = "calorie_records"

// DailyTotal is one (date, summed calories) pair for trend display.
type DailyTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// RecordStore holds past CalorieRecords. Every mutation is a whole-
// collection read-modify-write; concurrent writers race with last write
// winning on the full collection.
type RecordStore struct {
	kv  *KV
	now func() time.Time
}

func NewRecordStore(kv *KV) *RecordStore {
	return &RecordStore{kv: kv, now: time.Now}
}

func (s *RecordStore) load() []models.CalorieRecord {
	raw, err := s.kv.Get(storageKey)
	if err != nil {
		log.Printf("error reading records: %v", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var records []models.CalorieRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("error decoding records: %v", err)
		return nil
	}
	return records
}

func (s *RecordStore) save(records []models.CalorieRecord) {
	raw, err := json.Marshal(records)
	if err != nil {
		log.Printf("error encoding records: %v", err)
		return
	}
	if err := s.kv.Set(storageKey, string(raw)); err != nil {
		log.Printf("error saving records: %v", err)
	}
}

// Append adds one record and persists the full collection.
func (s *RecordStore) Append(rec models.CalorieRecord) {
	records := s.load()
	records = append(records, rec)
	s.save(records)
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op.
func (s *RecordStore) Delete(id string) {
	records := s.load()
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.save(kept)
}

// All returns every record. Order is whatever the collection holds; callers
// sort by timestamp for display.
func (s *RecordStore) All() []models.CalorieRecord {
	return s.load()
}

// ForDate returns records whose date equals the given calendar date
// ("2006-01-02").
func (s *RecordStore) ForDate(date string) []models.CalorieRecord {
	var out []models.CalorieRecord
	for _, r := range s.load() {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out
}

// TodayRecords returns the records saved today.
func (s *RecordStore) TodayRecords() []models.CalorieRecord {
	return s.ForDate(s.now().Format("2006-01-02"))
}

// DailyTotals sums calories per date over the window
// [today-(windowDays-1), today]. Dates with no records are omitted, not
// zero-filled. Results are sorted by date ascending.
func (s *RecordStore) DailyTotals(windowDays int) []DailyTotal {
	now := s.now()
	start := dayStart(now).AddDate(0, 0, -(windowDays - 1))
	end := dayEnd(now)

	totals := map[string]float64{}
	for _, r := range s.load() {
		d, err := time.ParseInLocation("2006-01-02", r.Date, now.Location())
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		totals[r.Date] += r.Calorie
	}

	out := make([]DailyTotal, 0, len(totals))
	for date, total := range totals {
		out = append(out, DailyTotal{Date: date, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
