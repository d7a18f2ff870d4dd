package core

import (
	"testing"
	"time"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseSessionID tests session ID parsing
func TestParseSessionID(t *testing.T) {
	fresh := NewSessionID()

	tests := []struct {
		input    string
		expected SessionID
		hasError bool
	}{
		{fresh.String(), fresh, false},
		{"  " + fresh.String() + " ", fresh, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, test := range tests {
		result, err := ParseSessionID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestTimestampRoundTrip tests second-resolution formatting and parsing
func TestTimestampRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 999, time.Local)
	ts := NewTimestamp(at)

	if ts.String() != "2024-03-09 14:05:07" {
		t.Errorf("Expected '2024-03-09 14:05:07', got '%s'", ts.String())
	}

	parsed, err := ParseTimestamp(ts.String())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !parsed.Time().Equal(ts.Time()) {
		t.Errorf("Expected %v, got %v", ts.Time(), parsed.Time())
	}
}
