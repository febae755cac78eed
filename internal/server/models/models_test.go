package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestEntryPatch_Apply(t *testing.T) {
	e := Entry{Title: "Trip", Content: "Went hiking"}

	p := EntryPatch{Content: ptr("Went hiking and swimming")}
	assert.False(t, p.Empty())
	p.Apply(&e)

	assert.Equal(t, "Trip", e.Title)
	assert.Equal(t, "Went hiking and swimming", e.Content)

	assert.True(t, EntryPatch{}.Empty())
}

func TestBlank(t *testing.T) {
	assert.True(t, Blank(""))
	assert.True(t, Blank(" \t\n"))
	assert.False(t, Blank(" x "))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Expired(now))
}
