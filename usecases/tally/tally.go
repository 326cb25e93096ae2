// Package tally groups users by how many distinct emoji they reacted with and renders the
// summary text posted back to the channel.
package tally

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Teara-exe/starryCafeBot/models"
)

// DefaultLabel prefixes every bucket line, "reaction count" in Japanese
const DefaultLabel = "反応数"

// Bucket lists the users whose distinct-emoji count equals Count
type Bucket struct {
	Count   int
	UserIDs []string
}

// Tally is the grouped result, bucket 0 first then ascending counts
type Tally struct {
	Buckets []Bucket
}

// Compute groups users by the number of distinct emoji they reacted with.
//
// Bucket 0 holds roster members who did not react at all. Buckets 1..N hold every reacting
// user, roster member or not, where N is the number of emoji entries on the message rather
// than the highest count anyone reached, so trailing buckets may be empty.
func Compute(snapshot models.ReactionSnapshot, roster models.Roster) Tally {
	counts := make(map[string]int)
	for _, reaction := range snapshot {
		for userID := range distinct(reaction.UserIDs) {
			counts[userID]++
		}
	}

	maxCount := len(snapshot)
	buckets := make([]Bucket, maxCount+1)
	for i := range buckets {
		buckets[i] = Bucket{Count: i, UserIDs: []string{}}
	}

	for _, userID := range roster.IDs() {
		if counts[userID] == 0 {
			buckets[0].UserIDs = append(buckets[0].UserIDs, userID)
		}
	}
	for userID, count := range counts {
		buckets[count].UserIDs = append(buckets[count].UserIDs, userID)
	}
	for i := 1; i < len(buckets); i++ {
		sort.Strings(buckets[i].UserIDs)
	}

	return Tally{Buckets: buckets}
}

// Render formats one line per bucket: <label><n> ``` <names> ```
func (t Tally) Render(label string, displayName func(userID string) string) string {
	var sb strings.Builder
	for _, bucket := range t.Buckets {
		names := sortedNames(bucket.UserIDs, displayName)
		fmt.Fprintf(&sb, "%s%d ``` %s ```\n", label, bucket.Count, strings.Join(names, " "))
	}
	return sb.String()
}

// bucket returns the bucket for count, or an empty one when count is out of range
func (t Tally) bucket(count int) Bucket {
	if count < 0 || count >= len(t.Buckets) {
		return Bucket{Count: count, UserIDs: []string{}}
	}
	return t.Buckets[count]
}

// BuildReport computes the tally and renders it with the default label
func BuildReport(
	snapshot models.ReactionSnapshot,
	roster models.Roster,
	displayName func(userID string) string,
) string {
	return Compute(snapshot, roster).Render(DefaultLabel, displayName)
}

func distinct(userIDs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		set[id] = struct{}{}
	}
	return set
}

// sortedNames orders by display name, then by ID so equal names stay stable
func sortedNames(userIDs []string, displayName func(string) string) []string {
	type entry struct {
		id   string
		name string
	}
	entries := make([]entry, 0, len(userIDs))
	for _, id := range userIDs {
		entries = append(entries, entry{id: id, name: displayName(id)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].name != entries[j].name {
			return entries[i].name < entries[j].name
		}
		return entries[i].id < entries[j].id
	})

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}
