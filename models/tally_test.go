package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster(t *testing.T) {
	r := NewRoster("b", "a", "b")

	assert.Len(t, r, 2)
	assert.True(t, r.Contains("a"))
	assert.Equal(t, []string{"a", "b"}, r.IDs())

	r.Remove("a")
	assert.False(t, r.Contains("a"))
	assert.Equal(t, []string{"b"}, r.IDs())
}

func TestDirectory(t *testing.T) {
	d := Directory{}
	d.Set("u1", "Alice")
	d.Set("u1", "Overwritten")
	d.Set("u2", "")

	assert.Equal(t, "Alice", d.Name("u1"))
	assert.Equal(t, "u2", d.Name("u2"), "empty names are ignored")

	d.Merge(Directory{"u1": "Other", "u3": "Carol"})
	assert.Equal(t, "Alice", d.Name("u1"))
	assert.Equal(t, "Carol", d.Name("u3"))
}

func TestEventTypes(t *testing.T) {
	events := []Event{
		ReadyEvent{},
		MessageReceivedEvent{},
		ReactionAddedEvent{},
		ReactionRemovedEvent{},
	}
	expected := []EventType{
		EventTypeReady,
		EventTypeMessageReceived,
		EventTypeReactionAdded,
		EventTypeReactionRemoved,
	}

	for i, event := range events {
		assert.Equal(t, expected[i], event.Type())
	}
}
