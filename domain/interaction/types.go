package interaction

import (
	"time"

	"askmydata/domain/core"
)

// Record is one persisted question/answer pair. Records are never modified
// after they are appended.
type Record struct {
	ID        int64  `db:"id" json:"id"`
	Timestamp string `db:"timestamp" json:"timestamp"`
	Question  string `db:"question" json:"question"`
	Answer    string `db:"answer" json:"answer"`
}

// NewRecord stamps a question/answer pair with at, at second resolution
func NewRecord(at time.Time, question, answer string) Record {
	return Record{
		Timestamp: core.NewTimestamp(at).String(),
		Question:  question,
		Answer:    answer,
	}
}

// LatestFirst returns a reversed copy of records, which are stored oldest first
func LatestFirst(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}
