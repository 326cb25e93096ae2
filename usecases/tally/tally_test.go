package tally

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Teara-exe/starryCafeBot/models"
)

var testDirectory = models.Directory{
	"a": "Alice",
	"b": "Bob",
	"c": "Carol",
	"d": "Dave",
}

func TestBuildReport_NoReactions(t *testing.T) {
	report := BuildReport(nil, models.NewRoster("a", "b", "c"), testDirectory.Name)

	assert.Equal(t, "反応数0 ``` Alice Bob Carol ```\n", report)
}

func TestBuildReport_EmptyRoster(t *testing.T) {
	t.Run("no reactions", func(t *testing.T) {
		report := BuildReport(nil, models.NewRoster(), testDirectory.Name)
		assert.Equal(t, "反応数0 ```  ```\n", report)
	})

	t.Run("reactions from outside the roster are still listed", func(t *testing.T) {
		snapshot := models.ReactionSnapshot{{Emoji: "👍", UserIDs: []string{"d"}}}
		report := BuildReport(snapshot, models.NewRoster(), testDirectory.Name)
		assert.Equal(t, "反応数0 ```  ```\n反応数1 ``` Dave ```\n", report)
	})
}

func TestBuildReport_Scenario(t *testing.T) {
	snapshot := models.ReactionSnapshot{
		{Emoji: "👍", UserIDs: []string{"a", "b"}},
		{Emoji: "🎉", UserIDs: []string{"b"}},
	}

	report := BuildReport(snapshot, models.NewRoster("a", "b", "c"), testDirectory.Name)

	expected := "反応数0 ``` Carol ```\n" +
		"反応数1 ``` Alice ```\n" +
		"反応数2 ``` Bob ```\n"
	assert.Equal(t, expected, report)
}

func TestCompute_DuplicateReactorCountsOnce(t *testing.T) {
	snapshot := models.ReactionSnapshot{
		{Emoji: "👍", UserIDs: []string{"a", "a"}},
		{Emoji: "🎉", UserIDs: []string{"b"}},
		{Emoji: "🔥", UserIDs: []string{"b"}},
	}

	result := Compute(snapshot, models.NewRoster("a", "b"))

	assert.Equal(t, []string{"a"}, result.bucket(1).UserIDs)
	assert.Equal(t, []string{"b"}, result.bucket(2).UserIDs)
	assert.Empty(t, result.bucket(3).UserIDs)
}

func TestCompute_BucketBoundIsEmojiCount(t *testing.T) {
	snapshot := models.ReactionSnapshot{
		{Emoji: "👍", UserIDs: []string{"a"}},
		{Emoji: "🎉", UserIDs: []string{"a"}},
		{Emoji: "🔥", UserIDs: []string{}},
		{Emoji: "🍰", UserIDs: []string{}},
	}

	result := Compute(snapshot, models.NewRoster("a"))

	require.Len(t, result.Buckets, 5, "one bucket per emoji entry plus bucket 0")
	for i, bucket := range result.Buckets {
		assert.Equal(t, i, bucket.Count)
	}
	assert.Equal(t, []string{"a"}, result.bucket(2).UserIDs)

	report := result.Render(DefaultLabel, testDirectory.Name)
	assert.Equal(t, 5, strings.Count(report, "\n"))
	assert.Contains(t, report, "反応数4 ```  ```\n")
}

func TestCompute_PartitionsRoster(t *testing.T) {
	roster := models.NewRoster("a", "b", "c", "d")
	snapshot := models.ReactionSnapshot{
		{Emoji: "👍", UserIDs: []string{"a", "b", "c"}},
		{Emoji: "🎉", UserIDs: []string{"b", "c"}},
		{Emoji: "🔥", UserIDs: []string{"c"}},
	}

	result := Compute(snapshot, roster)

	seen := make(map[string]int)
	for _, bucket := range result.Buckets {
		for _, id := range bucket.UserIDs {
			seen[id]++
		}
	}
	assert.Len(t, seen, len(roster))
	for id := range roster {
		assert.Equal(t, 1, seen[id], "user %s must be in exactly one bucket", id)
	}

	assert.Equal(t, []string{"d"}, result.bucket(0).UserIDs)
	assert.Equal(t, []string{"a"}, result.bucket(1).UserIDs)
	assert.Equal(t, []string{"b"}, result.bucket(2).UserIDs)
	assert.Equal(t, []string{"c"}, result.bucket(3).UserIDs)
}

func TestBuildReport_Idempotent(t *testing.T) {
	roster := models.NewRoster("a", "b", "c", "d")
	snapshot := models.ReactionSnapshot{
		{Emoji: "👍", UserIDs: []string{"d", "a", "b"}},
		{Emoji: "🎉", UserIDs: []string{"b", "d"}},
	}

	first := BuildReport(snapshot, roster, testDirectory.Name)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, BuildReport(snapshot, roster, testDirectory.Name))
	}
}

func TestRender_SortsByDisplayNameThenID(t *testing.T) {
	directory := models.Directory{"u2": "same", "u1": "same", "u3": "aaa"}
	result := Tally{Buckets: []Bucket{{Count: 0, UserIDs: []string{"u2", "u3", "u1"}}}}

	assert.Equal(t, "x0 ``` aaa same same ```\n", result.Render("x", directory.Name))
}

func TestRender_UnknownUserFallsBackToID(t *testing.T) {
	snapshot := models.ReactionSnapshot{{Emoji: "👍", UserIDs: []string{"ghost"}}}
	report := BuildReport(snapshot, models.NewRoster(), testDirectory.Name)

	assert.Contains(t, report, "反応数1 ``` ghost ```")
}

func TestTally_BucketOutOfRange(t *testing.T) {
	result := Compute(nil, models.NewRoster("a"))

	assert.Equal(t, 7, result.bucket(7).Count)
	assert.Empty(t, result.bucket(7).UserIDs)
	assert.Empty(t, result.bucket(-1).UserIDs)
}
