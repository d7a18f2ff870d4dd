package session

import (
	"askmydata/domain/core"
	"askmydata/domain/dataset"
)

// Sender of a transcript message
type Sender string

const (
	SenderUser Sender = "You"
	SenderBot  Sender = "Bot"
)

// Message is one line of the on-screen transcript
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Notice is a user-facing message left by the last interaction
type Notice struct {
	Level string `json:"level"` // info|warning|error
	Text  string `json:"text"`
}

// State is everything the dashboard carries between interactions of one
// session. Handlers take a State and return the next one; the dataset pointer
// is replaced wholesale on upload and never mutated.
type State struct {
	ID         core.SessionID
	Dataset    *dataset.Dataset
	Transcript []Message
	Notice     *Notice
}

// NewState returns an empty state for id
func NewState(id core.SessionID) State {
	return State{ID: id}
}

// HasDataset reports whether an upload has been accepted
func (s State) HasDataset() bool {
	return s.Dataset != nil
}

// WithMessages returns a copy of s with msgs appended to a fresh transcript slice
func (s State) WithMessages(msgs ...Message) State {
	transcript := make([]Message, 0, len(s.Transcript)+len(msgs))
	transcript = append(transcript, s.Transcript...)
	transcript = append(transcript, msgs...)
	s.Transcript = transcript
	return s
}
