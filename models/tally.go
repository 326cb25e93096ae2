package models

import "sort"

// EmojiReaction is one emoji on a watched message and the non-bot users who applied it
type EmojiReaction struct {
	Emoji   string
	UserIDs []string
}

// ReactionSnapshot is the authoritative reaction state of a message at one point in time
type ReactionSnapshot []EmojiReaction

// Roster is the set of users expected to respond to a watched message
type Roster map[string]struct{}

func NewRoster(userIDs ...string) Roster {
	r := make(Roster, len(userIDs))
	for _, id := range userIDs {
		r.Add(id)
	}
	return r
}

func (r Roster) Add(userID string) {
	r[userID] = struct{}{}
}

func (r Roster) Remove(userID string) {
	delete(r, userID)
}

func (r Roster) Contains(userID string) bool {
	_, ok := r[userID]
	return ok
}

// IDs returns the roster members sorted by ID
func (r Roster) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Directory maps user IDs to the names shown in reports
type Directory map[string]string

// Set records a display name unless one is already known for the user
func (d Directory) Set(userID, name string) {
	if name == "" {
		return
	}
	if _, exists := d[userID]; exists {
		return
	}
	d[userID] = name
}

// Merge copies entries from other without overwriting existing names
func (d Directory) Merge(other Directory) {
	for id, name := range other {
		d.Set(id, name)
	}
}

// Name returns the display name for userID, falling back to the ID itself
func (d Directory) Name(userID string) string {
	if name, ok := d[userID]; ok {
		return name
	}
	return userID
}
