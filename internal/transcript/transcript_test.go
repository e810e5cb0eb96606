package transcript

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreGenerated = cmpopts.IgnoreFields(Entry{}, "ID", "Time", "ReplyTo")

func TestTranscript_AppendOrder(t *testing.T) {
	tr := New()
	q := tr.AddQuestion("What is X?")
	tr.AddAnswer(q.ID, "X is Y")

	want := []Entry{
		{Role: RoleQuestion, Text: "What is X?"},
		{Role: RoleAnswer, Text: "X is Y"},
	}
	if diff := cmp.Diff(want, tr.Entries(), ignoreGenerated); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscript_AnswerLinksQuestion(t *testing.T) {
	tr := New()
	q := tr.AddQuestion("ping")
	a := tr.AddAnswer(q.ID, "pong")

	assert.Equal(t, q.ID, a.ReplyTo)
	assert.NotEmpty(t, q.ID)
	assert.NotEqual(t, q.ID, a.ID)
}

func TestTranscript_EntriesIsACopy(t *testing.T) {
	tr := New()
	tr.AddQuestion("original")

	got := tr.Entries()
	got[0].Text = "tampered"

	assert.Equal(t, "original", tr.Entries()[0].Text)
}

func TestTranscript_ZeroValue(t *testing.T) {
	var tr Transcript
	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Last()
	assert.False(t, ok)

	e := tr.AddQuestion("hi")
	assert.False(t, e.Time.IsZero())
	assert.Equal(t, 1, tr.Len())
}

func TestTranscript_TimeFromClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := &Transcript{now: func() time.Time { return fixed }}

	e := tr.AddQuestion("when")
	assert.Equal(t, fixed, e.Time)
}

func TestTranscript_OutOfOrderAnswers(t *testing.T) {
	tr := New()
	first := tr.AddQuestion("first")
	second := tr.AddQuestion("second")

	// The second call finished first.
	tr.AddAnswer(second.ID, "answer two")
	tr.AddAnswer(first.ID, "answer one")

	want := []Entry{
		{Role: RoleQuestion, Text: "first"},
		{Role: RoleQuestion, Text: "second"},
		{Role: RoleAnswer, Text: "answer two"},
		{Role: RoleAnswer, Text: "answer one"},
	}
	if diff := cmp.Diff(want, tr.Entries(), ignoreGenerated); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscript_Pending(t *testing.T) {
	tr := New()
	a := tr.AddQuestion("a")
	b := tr.AddQuestion("b")
	tr.AddAnswer(a.ID, "done")

	pending := tr.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	last, ok := tr.Last()
	require.True(t, ok)
	assert.Equal(t, RoleAnswer, last.Role)
}
