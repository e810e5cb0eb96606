// Package transcript holds the ordered question/answer turns of a chat.
package transcript

import (
	"time"

	"github.com/google/uuid"
)

// Role tells whether an entry was asked by the user or answered by the backend.
type Role string

const (
	RoleQuestion Role = "question"
	RoleAnswer   Role = "answer"
)

// Entry is one line of the transcript. Entries are values and are never
// modified after they are appended.
type Entry struct {
	ID   string
	Role Role
	Text string
	Time time.Time

	// ReplyTo is the ID of the question an answer belongs to. Empty for questions.
	ReplyTo string
}

// Transcript is an append-only list of entries in append order.
// The zero value is an empty transcript ready to use.
type Transcript struct {
	entries []Entry
	now     func() time.Time
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// AddQuestion appends a question and returns it.
func (t *Transcript) AddQuestion(text string) Entry {
	return t.add(Entry{Role: RoleQuestion, Text: text})
}

// AddAnswer appends the answer to the question with ID replyTo.
func (t *Transcript) AddAnswer(replyTo, text string) Entry {
	return t.add(Entry{Role: RoleAnswer, Text: text, ReplyTo: replyTo})
}

func (t *Transcript) add(e Entry) Entry {
	now := time.Now
	if t.now != nil {
		now = t.now
	}
	e.ID = uuid.NewString()
	e.Time = now()
	t.entries = append(t.entries, e)
	return e
}

// Entries returns a copy of the entries in append order.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Last returns the most recent entry.
func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// Pending returns the questions that have no answer yet, oldest first.
func (t *Transcript) Pending() []Entry {
	answered := make(map[string]bool)
	for _, e := range t.entries {
		if e.Role == RoleAnswer {
			answered[e.ReplyTo] = true
		}
	}
	var pending []Entry
	for _, e := range t.entries {
		if e.Role == RoleQuestion && !answered[e.ID] {
			pending = append(pending, e)
		}
	}
	return pending
}
